// Package domain contains the company profile model.
package domain

import (
	"context"
	"time"
)

// Profile is the per-user company profile. The owner email is the natural
// key; there is at most one row per user.
type Profile struct {
	OwnerEmail  string    `gorm:"primaryKey;type:text" json:"-"`
	CompanyName string    `gorm:"type:text;not null;default:''" json:"companyName"`
	Address     string    `gorm:"type:text;not null;default:''" json:"address"`
	Currency    string    `gorm:"type:text;not null;default:'USD'" json:"currency"`
	LogoDataURI string    `gorm:"type:text" json:"logoBase64,omitempty"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }

// SavePayload carries client-submitted profile fields. Saves are full
// replacements; omitted fields come back empty.
type SavePayload struct {
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	Currency    string `json:"currency"`
	LogoDataURI string `json:"logoBase64"`
}

type Service interface {
	// Get returns the zero Profile when none exists, never an error for
	// absence.
	Get(ctx context.Context, ownerEmail string) (Profile, error)
	// Save upserts the profile, replacing all fields.
	Save(ctx context.Context, ownerEmail string, payload SavePayload) error
}
