package receipt

import (
	"html/template"
	"io"

	"minimarket/internal/model"
)

var htmlTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}} {{.Number}}</title>
<style>
body { margin: 0; }
.doc { width: 320px; font-family: 'Courier New', monospace; color: #222; padding: 16px; border-top: 4px solid {{if .Invoice}}#2196F3{{else}}#4CAF50{{end}}; }
.head { text-align: center; padding: 12px; background: {{if .Invoice}}#E3F2FD{{else}}#E8F5E9{{end}}; }
.head .name { font-weight: bold; font-size: 20px; }
.head .meta { font-size: 11px; color: #666; }
.title { text-align: center; font-weight: bold; font-size: 16px; padding: 8px 0; border-top: 2px dashed #ccc; border-bottom: 2px dashed #ccc; }
.info, .pay { font-size: 12px; padding: 8px; background: #f9f9f9; margin: 12px 0; }
table { width: 100%; font-size: 12px; border-collapse: collapse; }
th, td { padding: 4px 0; }
.r { text-align: right; } .c { text-align: center; }
.total { font-size: 14px; font-weight: bold; text-align: right; padding: 8px 0; border-top: 2px dashed #ccc; }
.foot { text-align: center; font-size: 11px; color: #888; }
@media print { .doc { border: none; } }
</style>
</head>
<body>
<div class="doc">
  <div class="head">
    <div class="name">{{.Business.Name}}</div>
    <div class="meta">{{if .Business.TaxID}}RUC: {{.Business.TaxID}}<br>{{end}}{{.Business.Address}}{{if .Business.Phone}}<br>Tel: {{.Business.Phone}}{{end}}</div>
  </div>
  <div class="title">{{.Title}}</div>
  <div class="info">
    <div><b>Fecha:</b> {{.Date}}</div>
    <div><b>N°:</b> {{.Number}}</div>
    <div><b>Cliente:</b> {{.Customer}}</div>
    {{- if .Document}}
    <div><b>Doc:</b> {{.Document}}</div>
    {{- end}}
  </div>
  <table>
    <thead><tr><th>Producto</th><th class="c">Cant</th><th class="r">Precio</th><th class="r">Subt</th></tr></thead>
    <tbody>
    {{- range .Lines}}
      <tr><td>{{.Name}}</td><td class="c">{{.Quantity}}</td><td class="r">{{.Price}}</td><td class="r">{{.Total}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  <div class="total">
    <div>Subtotal: {{.Subtotal}}</div>
    <div>IGV: {{.Tax}}</div>
    <div>Total: {{.Total}}</div>
  </div>
  <div class="pay">
    <div><b>Método de pago:</b> {{.PaymentMethod}}</div>
    {{- if .OperationNumber}}
    <div><b>N° Operación:</b> {{.OperationNumber}}</div>
    {{- end}}
  </div>
  <div class="foot">
    <div>¡Gracias por su compra!</div>
    <div><i>{{.Footer}}</i></div>
  </div>
</div>
</body>
</html>
`))

// HTML writes a print-ready page.
func (r *Renderer) HTML(w io.Writer, sale model.Sale, v Variant) error {
	return htmlTmpl.Execute(w, r.build(sale, v))
}
