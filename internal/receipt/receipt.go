// Package receipt formats a finalized sale as a printable document. Two
// variants share one layout: the retail receipt (boleta) and the tax invoice
// (factura).
package receipt

import (
	"fmt"
	"io"
	"time"

	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

// Variant selects the document framing.
type Variant string

const (
	VariantReceipt Variant = "receipt"
	VariantInvoice Variant = "invoice"
)

// ParseVariant accepts the English names and the Spanish "boleta"/"factura".
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "", "receipt", "boleta":
		return VariantReceipt, nil
	case "invoice", "factura":
		return VariantInvoice, nil
	}
	return "", fmt.Errorf("unknown receipt variant %q", s)
}

func (v Variant) Title() string {
	if v == VariantInvoice {
		return "FACTURA ELECTRÓNICA"
	}
	return "BOLETA ELECTRÓNICA"
}

func (v Variant) Footer() string {
	if v == VariantInvoice {
		return "Representación impresa de la factura electrónica"
	}
	return "Comprobante de pago electrónico"
}

// Format is an output encoding.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatText, FormatPDF:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown receipt format %q", s)
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/html; charset=utf-8"
	}
}

// Business is the issuer block printed in the header.
type Business struct {
	Name     string
	TaxID    string
	Address  string
	Phone    string
	Currency string
}

// Renderer writes documents for one business. Dates are shown in Location.
type Renderer struct {
	Business Business
	Location *time.Location
}

func NewRenderer(b Business, loc *time.Location) *Renderer {
	if b.Currency == "" {
		b.Currency = "S/"
	}
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{Business: b, Location: loc}
}

// Render writes sale in the requested format.
func (r *Renderer) Render(w io.Writer, sale model.Sale, v Variant, f Format) error {
	switch f {
	case FormatText:
		return r.Text(w, sale, v)
	case FormatPDF:
		return r.PDF(w, sale, v)
	default:
		return r.HTML(w, sale, v)
	}
}

// document is the view model shared by every format.
type document struct {
	Business        Business
	Title           string
	Footer          string
	Date            string
	Number          string
	Customer        string
	Document        string
	Lines           []docLine
	Subtotal        string
	Tax             string
	Total           string
	PaymentMethod   string
	OperationNumber string
	Invoice         bool
}

type docLine struct {
	Name     string
	Quantity int
	Price    string
	Total    string
}

func (r *Renderer) build(sale model.Sale, v Variant) document {
	d := document{
		Business:      r.Business,
		Title:         v.Title(),
		Footer:        v.Footer(),
		Date:          sale.CreatedAt.In(r.Location).Format("02/01/2006 15:04"),
		Number:        sale.SaleNumber,
		Customer:      "Consumidor Final",
		Subtotal:      r.money(sale.Subtotal),
		Tax:           r.money(sale.Tax),
		Total:         r.money(sale.Total),
		PaymentMethod: sale.PaymentMethod.Label(),
		Invoice:       v == VariantInvoice,
	}
	if sale.CustomerName != nil && *sale.CustomerName != "" {
		d.Customer = *sale.CustomerName
	}
	if sale.CustomerDocument != nil {
		d.Document = *sale.CustomerDocument
	}
	if sale.OperationNumber != nil {
		d.OperationNumber = *sale.OperationNumber
	}
	for _, it := range sale.Items {
		d.Lines = append(d.Lines, docLine{
			Name:     it.ProductName,
			Quantity: it.Quantity,
			Price:    it.UnitPrice.StringFixed(2),
			Total:    it.Total.StringFixed(2),
		})
	}
	return d
}

func (r *Renderer) money(d decimal.Decimal) string {
	return r.Business.Currency + " " + d.StringFixed(2)
}
