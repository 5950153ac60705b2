package pdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapFragment(t *testing.T) {
	out := wrapFragment(`<div class="invoice-header">Acme</div>`, 20, 170)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<div class="invoice-header">Acme</div>`)
	assert.Contains(t, out, "margin: 20mm")
	assert.Contains(t, out, "width: 170mm")
	assert.Contains(t, out, "invoice-container")
}

func TestWrapFragmentStylesDocumentSections(t *testing.T) {
	out := wrapFragment("<p>body</p>", 20, 170)

	// Every class the invoice template emits has a rule in the shell.
	assert.Contains(t, out, ".invoice-header {")
	assert.Contains(t, out, ".invoice-billto {")
	assert.Contains(t, out, ".invoice-items {")
	assert.Contains(t, out, ".invoice-totals {")
	assert.Contains(t, out, ".invoice-notes p {")
	assert.Contains(t, out, ".label {")
	assert.Contains(t, out, ".invoice-items .num { text-align: right; }")

	// The table must span the container, with the Sprintf escape resolved.
	assert.Contains(t, out, "width: 100%;")
	assert.NotContains(t, out, "100%%")
}

func TestPxToMM(t *testing.T) {
	// 96 px at 96 DPI is one inch.
	assert.InDelta(t, 25.4, pxToMM(96, 96), 1e-9)
	assert.InDelta(t, 50.8, pxToMM(192, 96), 1e-9)
	assert.Zero(t, pxToMM(0, 96))
}

func TestMMToInches(t *testing.T) {
	assert.InDelta(t, 1.0, mmToInches(25.4), 1e-9)
	assert.InDelta(t, 8.268, mmToInches(210), 1e-3)
}
