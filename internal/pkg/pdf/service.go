// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
)

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(l order.Line) string { return l.Total().StringFixed(2) },
}).Parse(invoiceTemplate))

// Service renders order invoices
type Service struct {
	config *config.Config
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		now:    time.Now,
	}
}

// InvoiceData is the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	Currency      string
	Order         *order.Order
	Company       config.InvoiceConfig
}

// RenderHTML renders the invoice page of an order
func (s *Service) RenderHTML(o *order.Order) ([]byte, error) {
	data := InvoiceData{
		InvoiceNumber: "INV-" + o.Number(),
		InvoiceDate:   s.now().Format("January 2, 2006"),
		Currency:      s.config.Checkout.Currency,
		Order:         o,
		Company:       s.config.Invoice,
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateInvoice converts the invoice page to PDF with wkhtmltopdf
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	html, err := s.RenderHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}
	return bytes.NewBuffer(pdfg.Bytes()), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
body { font-family: Arial, sans-serif; font-size: 13px; color: #333; padding: 20px; }
h1 { color: #2c3e50; margin: 0 0 4px; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th { background: #2c3e50; color: #fff; text-align: left; padding: 8px; }
td { border-bottom: 1px solid #eee; padding: 8px; }
.right { text-align: right; }
.total { font-size: 16px; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Company.CompanyName}}</h1>
<div>{{.Company.CompanyAddress}}</div>
<div>{{.Company.CompanyEmail}}{{if .Company.CompanyWebsite}} · {{.Company.CompanyWebsite}}{{end}}</div>

<h2>Invoice {{.InvoiceNumber}}</h2>
<div>Date: {{.InvoiceDate}}</div>
<div>Status: {{.Order.Status}}</div>
<div>Payment: {{.Order.PaymentProvider}}</div>

<h3>Bill to</h3>
<div>{{.Order.Shipping.FirstName}} {{.Order.Shipping.LastName}}</div>
{{with .Order.Shipping.Company}}<div>{{.}}</div>{{end}}
<div>{{.Order.Shipping.Address1}} {{.Order.Shipping.Address2}}</div>
<div>{{.Order.Shipping.City}} {{.Order.Shipping.State}} {{.Order.Shipping.PostalCode}} {{.Order.Shipping.Country}}</div>
<div>{{.Order.Shipping.Email}} {{.Order.Shipping.PhoneNumber}}</div>

<table>
<tr><th>Item</th><th>Size</th><th class="right">Qty</th><th class="right">Price</th><th class="right">Total</th></tr>
{{range .Order.Lines}}<tr>
<td>{{.ProductName}}</td>
<td>{{.SizeName}}</td>
<td class="right">{{.Quantity}}</td>
<td class="right">{{.Price.StringFixed 2}}</td>
<td class="right">{{money .}}</td>
</tr>
{{end}}</table>

<p class="right total">Total: {{.Order.TotalPrice.StringFixed 2}} {{.Currency}}</p>
</body>
</html>
`
