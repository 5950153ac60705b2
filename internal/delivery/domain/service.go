// Package domain defines the invoice delivery contract.
package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Send renders the invoice to PDF, emails it to the client and marks
	// the invoice sent. The status only changes after the email provider
	// accepts the message.
	Send(ctx context.Context, ownerEmail, invoiceID string) error
}

var (
	// ErrMissingProfile means the owner has no company profile yet; a
	// deliverable document cannot be produced without one.
	ErrMissingProfile = errors.New("profile_not_found")
	// ErrDeliveryFailure wraps transport errors from the email provider.
	ErrDeliveryFailure = errors.New("delivery_failure")
)
