// Package format derives display invoice numbers from token templates.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

// DefaultInvoiceNumberTemplate matches the number the UI pre-fills when a
// user leaves the field blank.
const DefaultInvoiceNumberTemplate = "INV-{YYYY}{MM}{DD}-{SEQ3}"

// FormatInvoiceNumber expands the date and sequence tokens in template.
// {SEQn} zero-pads the sequence to n digits. Deterministic for a given
// issue time and sequence.
func FormatInvoiceNumber(template string, issuedAt time.Time, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	out := strings.NewReplacer(
		"{YYYY}", issuedAt.Format("2006"),
		"{YY}", issuedAt.Format("06"),
		"{MM}", issuedAt.Format("01"),
		"{DD}", issuedAt.Format("02"),
		"{SEQ}", strconv.FormatInt(seq, 10),
	).Replace(template)

	out = seqPadRe.ReplaceAllStringFunc(out, func(token string) string {
		width, err := strconv.Atoi(seqPadRe.FindStringSubmatch(token)[1])
		if err != nil || width <= 0 {
			return token
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.ContainsAny(out, "{}") {
		return "", fmt.Errorf("unresolved token in invoice number template: %s", out)
	}
	return out, nil
}
