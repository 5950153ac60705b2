package pdf

import (
	"fmt"
	"strings"
)

// documentShell fixes the print geometry around the caller's fragment: all
// margins and padding reset, the container forced to the printable width,
// and backgrounds preserved when printing.
const documentShell = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <title>Invoice PDF</title>
    <style>
      @page { margin: %.0fmm; }
      *, *::before, *::after {
        box-sizing: border-box;
        margin: 0;
        padding: 0;
        -webkit-print-color-adjust: exact;
        print-color-adjust: exact;
      }
      body {
        background: white;
        font-family: Helvetica, Arial, sans-serif;
        font-size: 10pt;
        color: #111827;
      }
      .invoice-container {
        width: %.0fmm;
        padding: 6mm;
        border: 1px solid #e5e7eb;
        border-radius: 4px;
        margin: 0 auto;
      }
      .invoice-container img {
        max-width: 120px;
        height: auto;
      }
      .invoice-header {
        display: flex;
        justify-content: space-between;
        align-items: flex-start;
        gap: 6mm;
        margin-bottom: 8mm;
      }
      .invoice-header h2 { font-size: 13pt; }
      .invoice-meta { text-align: right; }
      .invoice-meta h1 { font-size: 15pt; margin-bottom: 2mm; }
      .label {
        display: block;
        font-size: 8pt;
        text-transform: uppercase;
        letter-spacing: 0.05em;
        color: #6b7280;
        margin-bottom: 1mm;
      }
      .invoice-billto { margin-bottom: 8mm; }
      .invoice-items {
        width: 100%%;
        border-collapse: collapse;
        margin-bottom: 8mm;
      }
      .invoice-items th,
      .invoice-items td {
        padding: 2mm;
        border-bottom: 1px solid #e5e7eb;
        text-align: left;
      }
      .invoice-items th {
        font-size: 8pt;
        text-transform: uppercase;
        color: #6b7280;
      }
      .invoice-items .num { text-align: right; }
      .invoice-totals {
        margin-left: auto;
        width: 60mm;
        margin-bottom: 8mm;
      }
      .invoice-totals .row {
        display: flex;
        justify-content: space-between;
        padding: 1mm 0;
      }
      .invoice-totals .total {
        border-top: 1px solid #111827;
        font-weight: bold;
      }
      .invoice-notes p { white-space: pre-wrap; }
    </style>
  </head>
  <body>
    <div class="invoice-container">
%s
    </div>
  </body>
</html>
`

// wrapFragment embeds the fragment in the document shell.
func wrapFragment(fragment string, marginMM, contentWidthMM float64) string {
	return fmt.Sprintf(documentShell, marginMM, contentWidthMM, strings.TrimRight(fragment, "\n"))
}

// pxToMM converts device pixels to millimeters at the given DPI.
func pxToMM(px, dpi float64) float64 {
	return px * 25.4 / dpi
}

// mmToInches converts millimeters to inches for the print surface.
func mmToInches(mm float64) float64 {
	return mm / 25.4
}
