package service

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	deliverydomain "github.com/inkvoice/inkvoice/internal/delivery/domain"
	invoicedomain "github.com/inkvoice/inkvoice/internal/invoice/domain"
	"github.com/inkvoice/inkvoice/internal/invoice/render"
	obsmetrics "github.com/inkvoice/inkvoice/internal/observability/metrics"
	profiledomain "github.com/inkvoice/inkvoice/internal/profile/domain"
	"github.com/inkvoice/inkvoice/internal/providers/email"
	"github.com/inkvoice/inkvoice/internal/providers/pdf"
)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Invoices invoicedomain.Service
	Profiles profiledomain.Service
	Renderer pdf.Renderer
	Email    email.Provider
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	invoices invoicedomain.Service
	profiles profiledomain.Service
	renderer pdf.Renderer
	email    email.Provider
	metrics  *obsmetrics.Metrics
}

func NewService(p ServiceParam) deliverydomain.Service {
	return &Service{
		log:      p.Log.Named("delivery.service"),
		invoices: p.Invoices,
		profiles: p.Profiles,
		renderer: p.Renderer,
		email:    p.Email,
		metrics:  p.Metrics,
	}
}

func (s *Service) Send(ctx context.Context, ownerEmail, invoiceID string) error {
	var (
		invoice invoicedomain.Invoice
		profile profiledomain.Profile
	)

	// Invoice and profile live in independent rows, so fetch them
	// concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.invoices.Get(gctx, ownerEmail, invoiceID)
		if err != nil {
			return err
		}
		invoice = found
		return nil
	})
	g.Go(func() error {
		found, err := s.profiles.Get(gctx, ownerEmail)
		if err != nil {
			return err
		}
		profile = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if profile.OwnerEmail == "" {
		// Refuse to send without sender details; the invoice stays draft.
		return deliverydomain.ErrMissingProfile
	}

	input := render.RenderInput{Invoice: invoice, Profile: profile}

	fragment, err := render.RenderHTML(input)
	if err != nil {
		return err
	}
	body, err := render.RenderEmailBody(input)
	if err != nil {
		return err
	}

	document, err := s.renderer.Render(ctx, fragment)
	if err != nil {
		s.metrics.RecordDelivery(ctx, "render_failure")
		return err
	}

	msg := email.Message{
		To:      invoice.ClientEmail,
		Subject: fmt.Sprintf("Invoice #%s from %s", invoice.InvoiceNumber, profile.CompanyName),
		HTML:    body,
		Attachments: []email.Attachment{{
			Filename: fmt.Sprintf("invoice_%s.pdf", invoice.InvoiceNumber),
			Data:     document,
		}},
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.metrics.RecordDelivery(ctx, "transport_failure")
		s.log.Warn("email send failed",
			zap.String("invoice_id", invoiceID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", deliverydomain.ErrDeliveryFailure, err)
	}

	if err := s.invoices.MarkSent(ctx, ownerEmail, invoiceID); err != nil {
		s.metrics.RecordDelivery(ctx, "conflict")
		return err
	}

	s.metrics.RecordDelivery(ctx, "success")
	s.log.Info("invoice delivered",
		zap.String("invoice_id", invoiceID),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)
	return nil
}
