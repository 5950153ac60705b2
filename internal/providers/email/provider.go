// Package email sends transactional mail for auth links and deliveries.
package email

import "context"

// Attachment is a file carried by a message.
type Attachment struct {
	Filename string
	Data     []byte
}

// Message is one outbound email. From falls back to the provider default
// when empty.
type Message struct {
	From        string
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, msg Message) error {
	return nil
}
