package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	authdomain "github.com/inkvoice/inkvoice/internal/auth/domain"
	deliverydomain "github.com/inkvoice/inkvoice/internal/delivery/domain"
	invoicedomain "github.com/inkvoice/inkvoice/internal/invoice/domain"
	"github.com/inkvoice/inkvoice/internal/providers/pdf"
)

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"invalid email", authdomain.ErrInvalidEmail, http.StatusBadRequest, "validation_error"},
		{"unauthorized", authdomain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"invalid token", authdomain.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
		{"already sent", invoicedomain.ErrAlreadySent, http.StatusConflict, "conflict"},
		{"duplicate key", gorm.ErrDuplicatedKey, http.StatusConflict, "conflict"},
		{"too many logins", authdomain.ErrTooManyLogins, http.StatusTooManyRequests, "rate_limited"},
		{"invoice not found", invoicedomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"missing profile", deliverydomain.ErrMissingProfile, http.StatusNotFound, "not_found"},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"render failure", pdf.ErrRenderFailure, http.StatusInternalServerError, "render_failure"},
		{"delivery failure", deliverydomain.ErrDeliveryFailure, http.StatusInternalServerError, "delivery_failure"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.typ, payload.Type)
		})
	}
}

func TestMapErrorDuplicateKeyFromDriverMessage(t *testing.T) {
	status, payload := mapError(errors.New(`duplicate key value violates unique constraint "idx_profiles_owner"`))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", payload.Type)
}
