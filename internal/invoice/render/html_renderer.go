// Package render produces the HTML invoice document handed to the PDF
// renderer and the delivery email body.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	invoicedomain "github.com/inkvoice/inkvoice/internal/invoice/domain"
	profiledomain "github.com/inkvoice/inkvoice/internal/profile/domain"
)

const invoiceDocumentTemplate = `<div class="invoice-header">
  {{if .Profile.LogoDataURI}}<img src="{{.Profile.LogoDataURI}}" alt="logo" />{{end}}
  <div class="invoice-company">
    <h2>{{.Profile.CompanyName}}</h2>
    <p>{{.Profile.Address}}</p>
  </div>
  <div class="invoice-meta">
    <h1>Invoice #{{.Invoice.InvoiceNumber}}</h1>
    <p>Issue date: {{.Invoice.IssueDate}}</p>
    <p>Due date: {{.Invoice.DueDate}}</p>
  </div>
</div>
<div class="invoice-billto">
  <span class="label">Bill to</span>
  <p>{{.Invoice.ClientName}}</p>
  <p>{{.Invoice.ClientEmail}}</p>
</div>
<table class="invoice-items">
  <thead>
    <tr>
      <th>Description</th>
      <th class="num">Qty</th>
      <th class="num">Rate</th>
      <th class="num">Tax %</th>
      <th class="num">Amount</th>
    </tr>
  </thead>
  <tbody>
    {{range .Items}}<tr>
      <td>{{.Description}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.Rate}}</td>
      <td class="num">{{.Tax}}</td>
      <td class="num">{{.Amount}}</td>
    </tr>
    {{end}}
  </tbody>
</table>
<div class="invoice-totals">
  <div class="row"><span>Subtotal</span><span>{{.Subtotal}}</span></div>
  <div class="row"><span>Tax</span><span>{{.TotalTax}}</span></div>
  <div class="row total"><span>Total ({{.Currency}})</span><span>{{.Total}}</span></div>
</div>
{{if .Invoice.Notes}}<div class="invoice-notes">
  <span class="label">Notes</span>
  <p>{{.Invoice.Notes}}</p>
</div>{{end}}
`

const emailBodyTemplate = `<html>
  <body>
    <p>Hello {{.Invoice.ClientName}},</p>
    <p>Please find your invoice #{{.Invoice.InvoiceNumber}} attached.</p>
    <p>
      Amount Due: {{.Total}}<br>
      Due Date: {{.Invoice.DueDate}}
    </p>
    <p>{{.Profile.CompanyName}}</p>
  </body>
</html>
`

var (
	invoiceDocumentTmpl = template.Must(template.New("invoice_document").Parse(invoiceDocumentTemplate))
	emailBodyTmpl       = template.Must(template.New("email_body").Parse(emailBodyTemplate))
)

// RenderInput bundles the invoice with the sender's profile.
type RenderInput struct {
	Invoice invoicedomain.Invoice
	Profile profiledomain.Profile
}

type itemView struct {
	Description string
	Quantity    string
	Rate        string
	Tax         string
	Amount      string
}

type documentView struct {
	Invoice  invoicedomain.Invoice
	Profile  profiledomain.Profile
	Items    []itemView
	Subtotal string
	TotalTax string
	Total    string
	Currency string
}

// RenderHTML renders the invoice document fragment.
func RenderHTML(input RenderInput) (string, error) {
	var buf bytes.Buffer
	if err := invoiceDocumentTmpl.Execute(&buf, newDocumentView(input)); err != nil {
		return "", fmt.Errorf("render invoice document: %w", err)
	}
	return buf.String(), nil
}

// RenderEmailBody renders the delivery email HTML.
func RenderEmailBody(input RenderInput) (string, error) {
	var buf bytes.Buffer
	if err := emailBodyTmpl.Execute(&buf, newDocumentView(input)); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return buf.String(), nil
}

func newDocumentView(input RenderInput) documentView {
	items := input.Invoice.LineItems()
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView{
			Description: item.Description,
			Quantity:    trimZeros(item.Quantity),
			Rate:        money(item.Rate),
			Tax:         trimZeros(item.Tax),
			Amount:      money(item.Quantity * item.Rate),
		})
	}

	currency := input.Profile.Currency
	if currency == "" {
		currency = "USD"
	}

	return documentView{
		Invoice:  input.Invoice,
		Profile:  input.Profile,
		Items:    views,
		Subtotal: money(input.Invoice.Subtotal),
		TotalTax: money(input.Invoice.TotalTax),
		Total:    money(input.Invoice.Total),
		Currency: currency,
	}
}

// money formats for display only; stored values keep full precision.
func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%g", v)
	return s
}
