package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/inkvoice/inkvoice/internal/invoice/domain"
	"github.com/inkvoice/inkvoice/internal/invoice/format"
	obsmetrics "github.com/inkvoice/inkvoice/internal/observability/metrics"
	"github.com/inkvoice/inkvoice/pkg/db/option"
	"github.com/inkvoice/inkvoice/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID       *snowflake.Node
	invoicerepo repository.Repository[invoicedomain.Invoice]
	metrics     *obsmetrics.Metrics
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,

		invoicerepo: repository.ProvideStore[invoicedomain.Invoice](p.DB),
		metrics:     p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, ownerEmail string) ([]invoicedomain.Invoice, error) {
	items, err := s.invoicerepo.Find(ctx,
		&invoicedomain.Invoice{OwnerEmail: ownerEmail},
		option.WithOrder("created_at DESC"),
	)
	if err != nil {
		return nil, err
	}

	invoices := make([]invoicedomain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}
	return invoices, nil
}

func (s *Service) Get(ctx context.Context, ownerEmail, id string) (invoicedomain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		// An unparseable id cannot exist, so it is simply not found.
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}

	item, err := s.invoicerepo.FindOne(ctx, &invoicedomain.Invoice{ID: invoiceID, OwnerEmail: ownerEmail})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if item == nil {
		// Absent and not-owned are deliberately indistinguishable.
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Create(ctx context.Context, ownerEmail string, payload invoicedomain.SavePayload) (invoicedomain.Invoice, error) {
	now := time.Now().UTC()
	totals := invoicedomain.ComputeTotals(payload.Items)

	number := strings.TrimSpace(payload.InvoiceNumber)
	if number == "" {
		generated, err := s.nextInvoiceNumber(ctx, ownerEmail, now)
		if err != nil {
			return invoicedomain.Invoice{}, err
		}
		number = generated
	}

	invoice := invoicedomain.Invoice{
		ID:            s.genID.Generate(),
		OwnerEmail:    ownerEmail,
		ClientName:    payload.ClientName,
		ClientEmail:   payload.ClientEmail,
		InvoiceNumber: number,
		IssueDate:     payload.IssueDate,
		DueDate:       payload.DueDate,
		Notes:         payload.Notes,
		Items:         datatypes.NewJSONType(normalizeItems(payload.Items)),
		Subtotal:      totals.Subtotal,
		TotalTax:      totals.TotalTax,
		Total:         totals.Total,
		Status:        invoicedomain.InvoiceStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.invoicerepo.Create(ctx, &invoice); err != nil {
		return invoicedomain.Invoice{}, err
	}
	s.metrics.RecordInvoiceWrite(ctx, "create")
	return invoice, nil
}

func (s *Service) Update(ctx context.Context, ownerEmail, id string, payload invoicedomain.SavePayload) (invoicedomain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}

	now := time.Now().UTC()
	totals := invoicedomain.ComputeTotals(payload.Items)

	// Single ownership-scoped UPDATE; id, owner and created_at never move.
	result := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("id = ? AND owner_email = ?", invoiceID, ownerEmail).
		Updates(map[string]any{
			"client_name":    payload.ClientName,
			"client_email":   payload.ClientEmail,
			"invoice_number": payload.InvoiceNumber,
			"issue_date":     payload.IssueDate,
			"due_date":       payload.DueDate,
			"notes":          payload.Notes,
			"items":          datatypes.NewJSONType(normalizeItems(payload.Items)),
			"subtotal":       totals.Subtotal,
			"total_tax":      totals.TotalTax,
			"total":          totals.Total,
			"updated_at":     now,
		})
	if result.Error != nil {
		return invoicedomain.Invoice{}, result.Error
	}
	if result.RowsAffected == 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}

	s.metrics.RecordInvoiceWrite(ctx, "update")
	return s.Get(ctx, ownerEmail, id)
}

func (s *Service) Delete(ctx context.Context, ownerEmail, id string) error {
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.ErrNotFound
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_email = ?", invoiceID, ownerEmail).
		Delete(&invoicedomain.Invoice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return invoicedomain.ErrNotFound
	}

	s.metrics.RecordInvoiceWrite(ctx, "delete")
	return nil
}

func (s *Service) MarkSent(ctx context.Context, ownerEmail, id string) error {
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.ErrNotFound
	}

	now := time.Now().UTC()

	// Conditional transition: only a draft flips to sent, so a second
	// concurrent sender observes zero affected rows.
	result := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("id = ? AND owner_email = ? AND status = ?", invoiceID, ownerEmail, invoicedomain.InvoiceStatusDraft).
		Updates(map[string]any{
			"status":     invoicedomain.InvoiceStatusSent,
			"sent_at":    now,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		item, findErr := s.invoicerepo.FindOne(ctx, &invoicedomain.Invoice{ID: invoiceID, OwnerEmail: ownerEmail})
		if findErr != nil {
			return findErr
		}
		if item == nil {
			return invoicedomain.ErrNotFound
		}
		return invoicedomain.ErrAlreadySent
	}

	s.metrics.RecordInvoiceWrite(ctx, "mark_sent")
	return nil
}

// nextInvoiceNumber derives a default number for payloads that leave the
// field blank. The sequence is a convenience, not a uniqueness guarantee.
func (s *Service) nextInvoiceNumber(ctx context.Context, ownerEmail string, issuedAt time.Time) (string, error) {
	count, err := s.invoicerepo.Count(ctx, &invoicedomain.Invoice{OwnerEmail: ownerEmail})
	if err != nil {
		return "", err
	}
	return format.FormatInvoiceNumber(format.DefaultInvoiceNumberTemplate, issuedAt, count+1)
}

func normalizeItems(items []invoicedomain.LineItem) []invoicedomain.LineItem {
	if items == nil {
		return []invoicedomain.LineItem{}
	}
	return items
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
