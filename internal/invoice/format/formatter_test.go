package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInvoiceNumberDefaultTemplate(t *testing.T) {
	issuedAt := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

	out, err := FormatInvoiceNumber(DefaultInvoiceNumberTemplate, issuedAt, 7)
	require.NoError(t, err)
	assert.Equal(t, "INV-20260830-007", out)
}

func TestFormatInvoiceNumberTokens(t *testing.T) {
	issuedAt := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)

	out, err := FormatInvoiceNumber("{YY}/{MM}-{SEQ}", issuedAt, 42)
	require.NoError(t, err)
	assert.Equal(t, "26/01-42", out)
}

func TestFormatInvoiceNumberRejectsBadInput(t *testing.T) {
	issuedAt := time.Now()

	_, err := FormatInvoiceNumber("", issuedAt, 1)
	assert.Error(t, err)

	_, err = FormatInvoiceNumber(DefaultInvoiceNumberTemplate, issuedAt, 0)
	assert.Error(t, err)

	_, err = FormatInvoiceNumber("INV-{UNKNOWN}", issuedAt, 1)
	assert.Error(t, err)
}
