package domain

import (
	"context"
	"errors"
)

// SavePayload carries client-submitted invoice fields. Derived totals are
// intentionally absent: the service recomputes them from Items.
type SavePayload struct {
	ClientName    string     `json:"clientName"`
	ClientEmail   string     `json:"clientEmail"`
	InvoiceNumber string     `json:"invoiceNumber"`
	IssueDate     string     `json:"issueDate"`
	DueDate       string     `json:"dueDate"`
	Notes         string     `json:"notes"`
	Items         []LineItem `json:"items"`
}

type Service interface {
	// List returns the owner's invoices, newest first.
	List(ctx context.Context, ownerEmail string) ([]Invoice, error)
	// Get returns ErrNotFound for both absent ids and ids owned by
	// someone else.
	Get(ctx context.Context, ownerEmail, id string) (Invoice, error)
	Create(ctx context.Context, ownerEmail string, payload SavePayload) (Invoice, error)
	Update(ctx context.Context, ownerEmail, id string, payload SavePayload) (Invoice, error)
	Delete(ctx context.Context, ownerEmail, id string) error
	// MarkSent flips draft -> sent. A non-draft invoice yields
	// ErrAlreadySent so concurrent senders lose deterministically.
	MarkSent(ctx context.Context, ownerEmail, id string) error
}

var (
	ErrNotFound    = errors.New("invoice_not_found")
	ErrAlreadySent = errors.New("invoice_already_sent")
)
