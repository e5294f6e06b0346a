package receipt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"minimarket/internal/model"
)

// TextWidth is the column count of a 80mm thermal printer in font A.
const TextWidth = 40

// Text writes a fixed-width rendering for thermal printers and terminals.
func (r *Renderer) Text(w io.Writer, sale model.Sale, v Variant) error {
	d := r.build(sale, v)
	var b strings.Builder

	rule := strings.Repeat("=", TextWidth)
	thin := strings.Repeat("-", TextWidth)

	b.WriteString(center(strings.ToUpper(d.Business.Name)))
	for _, s := range []string{labelled("RUC: ", d.Business.TaxID), d.Business.Address, labelled("Tel: ", d.Business.Phone)} {
		if s != "" {
			b.WriteString(center(s))
		}
	}
	b.WriteString(rule + "\n")
	b.WriteString(center(d.Title))
	b.WriteString(rule + "\n")

	b.WriteString(pair("Fecha:", d.Date))
	b.WriteString(pair("N°:", d.Number))
	b.WriteString(pair("Cliente:", d.Customer))
	if d.Document != "" {
		b.WriteString(pair("Doc:", d.Document))
	}
	b.WriteString(thin + "\n")

	fmt.Fprintf(&b, "%-18s %4s %7s %8s\n", "Producto", "Cant", "Precio", "Subt")
	for _, l := range d.Lines {
		fmt.Fprintf(&b, "%s %4d %7s %8s\n", padRight(truncate(l.Name, 18), 18), l.Quantity, l.Price, l.Total)
	}
	b.WriteString(thin + "\n")

	b.WriteString(pair("Subtotal:", d.Subtotal))
	b.WriteString(pair("IGV:", d.Tax))
	b.WriteString(pair("TOTAL:", d.Total))
	b.WriteString(thin + "\n")
	b.WriteString(pair("Método de pago:", d.PaymentMethod))
	if d.OperationNumber != "" {
		b.WriteString(pair("N° Operación:", d.OperationNumber))
	}
	b.WriteString(rule + "\n")
	b.WriteString(center("¡Gracias por su compra!"))
	b.WriteString(center(d.Footer))

	_, err := io.WriteString(w, b.String())
	return err
}

func labelled(label, v string) string {
	if v == "" {
		return ""
	}
	return label + v
}

// center wraps s at word boundaries and centers each resulting line.
func center(s string) string {
	var out strings.Builder
	for _, line := range wrap(s, TextWidth) {
		pad := (TextWidth - utf8.RuneCountInString(line)) / 2
		out.WriteString(strings.Repeat(" ", pad) + line + "\n")
	}
	return out.String()
}

func wrap(s string, width int) []string {
	var lines []string
	cur := ""
	for _, word := range strings.Fields(s) {
		word = truncate(word, width)
		switch {
		case cur == "":
			cur = word
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	return append(lines, cur)
}

// pair left-aligns label and right-aligns value on one line.
func pair(label, value string) string {
	gap := TextWidth - utf8.RuneCountInString(label) - utf8.RuneCountInString(value)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value + "\n"
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

func padRight(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}
