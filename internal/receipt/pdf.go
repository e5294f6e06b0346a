package receipt

import (
	"fmt"
	"io"

	"minimarket/internal/model"

	"github.com/go-pdf/fpdf"
)

// PDF writes an 80mm-wide ticket. The page grows with the number of lines.
func (r *Renderer) PDF(w io.Writer, sale model.Sale, v Variant) error {
	d := r.build(sale, v)

	height := 120.0 + float64(len(d.Lines))*5
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	// Core fonts are cp1252; translate accents and "ñ".
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, tr(d.Business.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	if d.Business.TaxID != "" {
		pdf.CellFormat(contentW, 4, tr("RUC: "+d.Business.TaxID), "", 1, "C", false, 0, "")
	}
	if d.Business.Address != "" {
		pdf.CellFormat(contentW, 4, tr(d.Business.Address), "", 1, "C", false, 0, "")
	}
	if d.Business.Phone != "" {
		pdf.CellFormat(contentW, 4, tr("Tel: "+d.Business.Phone), "", 1, "C", false, 0, "")
	}
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, tr(d.Title), "TB", 1, "C", false, 0, "")
	pdf.Ln(1)

	// ── Sale info ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	info := [][2]string{{"Fecha:", d.Date}, {"N°:", d.Number}, {"Cliente:", d.Customer}}
	if d.Document != "" {
		info = append(info, [2]string{"Doc:", d.Document})
	}
	for _, kv := range info {
		pdf.CellFormat(contentW*0.3, 4, tr(kv[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.7, 4, tr(kv[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.46
	col2 := contentW * 0.12
	col3 := contentW * 0.2
	col4 := contentW * 0.22

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Precio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Subt", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, l := range d.Lines {
		pdf.CellFormat(col1, 5, tr(truncate(l.Name, 24)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", l.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, l.Price, "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, l.Total, "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3
	pdf.CellFormat(labelW, 4, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 4, d.Subtotal, "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 4, "IGV:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 4, d.Tax, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(labelW, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 6, d.Total, "", 1, "R", false, 0, "")

	// ── Payment ──────────────────────────────────────────────────────────────
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr("Método de pago: "+d.PaymentMethod), "", 1, "L", false, 0, "")
	if d.OperationNumber != "" {
		pdf.CellFormat(contentW, 4, tr("N° Operación: "+d.OperationNumber), "", 1, "L", false, 0, "")
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, tr(d.Footer), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("receipt: write pdf: %w", err)
	}
	return nil
}
