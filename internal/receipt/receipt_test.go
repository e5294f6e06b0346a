package receipt

import (
	"bytes"
	"testing"
	"time"

	"minimarket/internal/model"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer() *Renderer {
	return NewRenderer(Business{
		Name:    "Minimarket Karito",
		TaxID:   "12345678901",
		Address: "Jr. Ejemplo 123, Lima",
		Phone:   "958-077-827",
	}, time.FixedZone("PET", -5*3600))
}

func strPtr(s string) *string { return &s }

func testSale() model.Sale {
	return model.Sale{
		ID:         "s1",
		SaleNumber: "V-1741962600000",
		Items: []model.SaleItem{
			{ID: "i1", ProductID: "p1", ProductName: "Arroz Costeño 1kg", UnitPrice: decimal.RequireFromString("4.5"), Quantity: 2, Total: decimal.RequireFromString("9")},
			{ID: "i2", ProductID: "p2", ProductName: "Leche Gloria Entera Lata 400g", UnitPrice: decimal.RequireFromString("3.8"), Quantity: 1, Total: decimal.RequireFromString("3.8")},
		},
		Subtotal:      decimal.RequireFromString("12.8"),
		Tax:           decimal.Zero,
		Total:         decimal.RequireFromString("12.8"),
		PaymentMethod: model.PaymentCash,
		Status:        model.SaleCompleted,
		CreatedAt:     time.Date(2025, 3, 14, 14, 30, 0, 0, time.UTC),
		CreatedBy:     "3",
	}
}

func TestTextReceipt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRenderer().Text(&buf, testSale(), VariantReceipt))

	g := goldie.New(t)
	g.Assert(t, t.Name(), buf.Bytes())
}

func TestTextInvoice(t *testing.T) {
	sale := testSale()
	sale.PaymentMethod = model.PaymentCard
	sale.OperationNumber = strPtr("OP123")
	sale.CustomerName = strPtr("Distribuidora Lima SAC")
	sale.CustomerDocument = strPtr("20123456789")

	var buf bytes.Buffer
	require.NoError(t, newTestRenderer().Text(&buf, sale, VariantInvoice))

	g := goldie.New(t)
	g.Assert(t, t.Name(), buf.Bytes())
}

func TestHTML(t *testing.T) {
	sale := testSale()
	sale.CustomerName = strPtr("<script>x</script>")

	var buf bytes.Buffer
	require.NoError(t, newTestRenderer().HTML(&buf, sale, VariantReceipt))
	out := buf.String()

	assert.Contains(t, out, "BOLETA ELECTRÓNICA")
	assert.Contains(t, out, "Minimarket Karito")
	assert.Contains(t, out, "RUC: 12345678901")
	assert.Contains(t, out, "14/03/2025 09:30")
	assert.Contains(t, out, "S/ 12.80")
	assert.Contains(t, out, "Efectivo")
	assert.Contains(t, out, "Comprobante de pago electrónico")
	assert.NotContains(t, out, "<script>x</script>")
	assert.NotContains(t, out, "N° Operación")
}

func TestHTMLInvoiceShowsOperationNumber(t *testing.T) {
	sale := testSale()
	sale.PaymentMethod = model.PaymentYape
	sale.OperationNumber = strPtr("OP999")

	var buf bytes.Buffer
	require.NoError(t, newTestRenderer().HTML(&buf, sale, VariantInvoice))
	out := buf.String()

	assert.Contains(t, out, "FACTURA ELECTRÓNICA")
	assert.Contains(t, out, "OP999")
	assert.Contains(t, out, "Yape")
	assert.Contains(t, out, "Representación impresa de la factura electrónica")
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRenderer().PDF(&buf, testSale(), VariantReceipt))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderDispatchesOnFormat(t *testing.T) {
	r := newTestRenderer()
	for _, f := range []Format{FormatHTML, FormatText, FormatPDF} {
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, testSale(), VariantReceipt, f), f)
		assert.NotZero(t, buf.Len(), f)
	}
}

func TestParseVariant(t *testing.T) {
	for in, want := range map[string]Variant{
		"":        VariantReceipt,
		"boleta":  VariantReceipt,
		"receipt": VariantReceipt,
		"factura": VariantInvoice,
		"invoice": VariantInvoice,
	} {
		got, err := ParseVariant(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseVariant("ticket")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)
	f, err = ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType())
	_, err = ParseFormat("docx")
	assert.Error(t, err)
}
