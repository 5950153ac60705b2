package email

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMIMEPlainHTML(t *testing.T) {
	raw, err := buildMIME("noreply@inkvoice.local", Message{
		To:      "billing@acme.test",
		Subject: "Invoice #INV-001",
		HTML:    "<p>Hello</p>",
	})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "noreply@inkvoice.local", msg.Header.Get("From"))
	assert.Equal(t, "billing@acme.test", msg.Header.Get("To"))
	assert.Contains(t, msg.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", string(body))
}

func TestBuildMIMEWithAttachment(t *testing.T) {
	pdfData := []byte("%PDF-1.4 fake document body")

	raw, err := buildMIME("noreply@inkvoice.local", Message{
		To:      "billing@acme.test",
		Subject: "Invoice #INV-001 from My Studio",
		HTML:    "<p>Please find your invoice attached.</p>",
		Attachments: []Attachment{
			{Filename: "invoice_INV-001.pdf", Data: pdfData},
		},
	})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(msg.Body, params["boundary"])

	body, err := reader.NextPart()
	require.NoError(t, err)
	assert.Contains(t, body.Header.Get("Content-Type"), "text/html")
	bodyBytes, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(bodyBytes), "invoice attached")

	att, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", att.Header.Get("Content-Type"))
	assert.Contains(t, att.Header.Get("Content-Disposition"), `filename="invoice_INV-001.pdf"`)
	assert.Equal(t, "base64", att.Header.Get("Content-Transfer-Encoding"))

	attBytes, err := io.ReadAll(att)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(attBytes), "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, pdfData, decoded)
}

func TestBuildMIMEDefaultsFrom(t *testing.T) {
	p := NewSMTP(Config{From: "Inkvoice <noreply@inkvoice.local>"})

	raw, err := buildMIME(p.cfg.From, Message{To: "x@y.test", Subject: "hi", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "From: Inkvoice <noreply@inkvoice.local>")
}
