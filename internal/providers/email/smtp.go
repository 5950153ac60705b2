package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPProvider struct {
	cfg Config
}

func NewSMTP(cfg Config) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) Send(ctx context.Context, msg Message) error {
	from := msg.From
	if from == "" {
		from = p.cfg.From
	}

	raw, err := buildMIME(from, msg)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	var auth smtp.Auth
	if p.cfg.Username != "" {
		auth = smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	return smtp.SendMail(addr, auth, from, []string{msg.To}, raw)
}

// buildMIME renders the message as multipart/mixed when attachments are
// present and plain text/html otherwise.
func buildMIME(from string, msg Message) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		buf.WriteString(msg.HTML)
		return buf.Bytes(), nil
	}

	w := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	bodyHeader := textproto.MIMEHeader{}
	bodyHeader.Set("Content-Type", "text/html; charset=\"UTF-8\"")
	body, err := w.CreatePart(bodyHeader)
	if err != nil {
		return nil, err
	}
	if _, err := body.Write([]byte(msg.HTML)); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", "application/pdf")
		header.Set("Content-Transfer-Encoding", "base64")
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, err
		}

		encoded := base64.StdEncoding.EncodeToString(att.Data)
		for len(encoded) > 0 {
			n := 76
			if len(encoded) < n {
				n = len(encoded)
			}
			if _, err := part.Write([]byte(encoded[:n] + "\r\n")); err != nil {
				return nil, err
			}
			encoded = encoded[n:]
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
