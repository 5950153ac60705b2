// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
)

// LineItem is one billable row on an invoice. Tax is a percentage of
// quantity*rate, not an absolute amount.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Tax         float64 `json:"tax"`
}

// Invoice represents a stored invoice owned by a single user.
type Invoice struct {
	ID            snowflake.ID                   `gorm:"primaryKey" json:"_id"`
	OwnerEmail    string                         `gorm:"type:text;not null;index" json:"-"`
	ClientName    string                         `gorm:"type:text;not null" json:"clientName"`
	ClientEmail   string                         `gorm:"type:text;not null" json:"clientEmail"`
	InvoiceNumber string                         `gorm:"type:text;not null" json:"invoiceNumber"`
	IssueDate     string                         `gorm:"type:text" json:"issueDate"`
	DueDate       string                         `gorm:"type:text" json:"dueDate"`
	Notes         string                         `gorm:"type:text" json:"notes,omitempty"`
	Items         datatypes.JSONType[[]LineItem] `gorm:"type:jsonb" json:"items"`
	Subtotal      float64                        `gorm:"not null;default:0" json:"subtotal"`
	TotalTax      float64                        `gorm:"not null;default:0" json:"totalTax"`
	Total         float64                        `gorm:"not null;default:0" json:"total"`
	Status        InvoiceStatus                  `gorm:"type:text;not null;default:'draft'" json:"status"`
	SentAt        *time.Time                     `gorm:"" json:"sentAt,omitempty"`
	CreatedAt     time.Time                      `gorm:"not null;index" json:"createdAt"`
	UpdatedAt     time.Time                      `gorm:"not null" json:"updatedAt"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// LineItems unwraps the JSON column.
func (i Invoice) LineItems() []LineItem {
	return i.Items.Data()
}
