// Package report renders recipe cost sheets for printing and export.
package report

import (
	"bytes"
	"html/template"
	"io"
	"time"

	"acai-backend/internal/domain"
	"acai-backend/internal/money"
	"acai-backend/internal/pricing"
)

// CostSheet is the data behind a printed recipe sheet.
type CostSheet struct {
	StoreName string
	Recipe    domain.Recipe
	Pricing   pricing.Result
	Date      time.Time
}

// NewCostSheet prices r against channels as of date.
func NewCostSheet(storeName string, r domain.Recipe, channels []domain.SalesChannel, date time.Time) CostSheet {
	return CostSheet{
		StoreName: storeName,
		Recipe:    r,
		Pricing:   pricing.Calculate(pricing.FromRecipe(r, channels)),
		Date:      date,
	}
}

var funcs = template.FuncMap{
	"brl":   money.BRL,
	"fixed": money.Fixed,
	"qty": func(v float64) string {
		return trimZeros(money.Fixed(v))
	},
}

var sheetTmpl = template.Must(template.New("sheet").Funcs(funcs).Parse(`<html>
<head>
<meta charset="utf-8">
<title>Ficha Técnica - {{.Recipe.Name}}</title>
<style>
body { font-family: 'Helvetica', 'Arial', sans-serif; padding: 40px; color: #333; }
h1 { text-transform: uppercase; font-size: 24px; margin-bottom: 5px; border-bottom: 2px solid #000; padding-bottom: 10px; }
.badge { font-size: 12px; background: #eee; padding: 2px 6px; border-radius: 4px; vertical-align: middle; }
.meta { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; margin-bottom: 30px; font-size: 14px; }
.box { border: 1px solid #ccc; padding: 10px; border-radius: 4px; background: #f9f9f9; }
h3 { border-bottom: 1px solid #999; padding-bottom: 5px; margin-top: 30px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 20px; font-size: 14px; }
th { text-align: left; background: #eee; padding: 8px; }
td { padding: 8px; border-bottom: 1px solid #ddd; }
.num { text-align: right; font-weight: bold; }
.instructions { white-space: pre-wrap; line-height: 1.6; font-size: 14px; }
.footer { margin-top: 50px; text-align: center; font-size: 10px; color: #999; border-top: 1px solid #eee; padding-top: 10px; }
@media print { body { -webkit-print-color-adjust: exact; } }
</style>
</head>
<body>
<h1>{{.Recipe.Name}}{{if .Recipe.IsReusable}} <span class="badge">PRÉ-PREPARO</span>{{end}}</h1>
<div class="meta">
<div class="box"><strong>Rendimento:</strong> {{if gt .Recipe.YieldAmount 0.0}}{{qty .Recipe.YieldAmount}} {{.Recipe.YieldUnit}}{{else}}N/A{{end}}</div>
<div class="box"><strong>Custo Total (CMV):</strong> {{brl .Pricing.CMV}}</div>
</div>
<h3>Ingredientes</h3>
<table>
<thead><tr><th>Item</th><th class="num">Qtd</th><th class="num">Custo</th></tr></thead>
<tbody>
{{range .Recipe.Ingredients}}<tr><td>{{.Name}}</td><td class="num">{{qty .UsedAmount}} {{.Unit}}</td><td class="num">{{brl .Cost}}</td></tr>
{{end}}</tbody>
</table>
{{if .Pricing.Channels}}<h3>Preços por Canal</h3>
<table>
<thead><tr><th>Canal</th><th class="num">Preço</th><th class="num">Taxas</th><th class="num">Lucro</th><th class="num">Margem</th></tr></thead>
<tbody>
{{range .Pricing.Channels}}<tr><td>{{.Name}}{{if .Manual}} (manual){{end}}</td><td class="num">{{brl .SuggestedPrice}}</td><td class="num">{{brl .Breakdown.PlatformFee}}</td><td class="num">{{brl .Profit}}</td><td class="num">{{fixed .MarginPercent}}%</td></tr>
{{end}}</tbody>
</table>
{{end}}{{if .Recipe.Instructions}}<h3>Modo de Preparo</h3>
<div class="instructions">{{.Recipe.Instructions}}</div>
{{end}}<div class="footer">Gerado pelo Sistema {{.StoreName}} em {{.Date.Format "02/01/2006"}}</div>
<script>window.onload = function() { window.print(); };</script>
</body>
</html>
`))

// WriteHTML renders the printable sheet. The page opens the print dialog
// once loaded.
func (c CostSheet) WriteHTML(w io.Writer) error {
	return sheetTmpl.Execute(w, c)
}

func (c CostSheet) HTML() (string, error) {
	var buf bytes.Buffer
	if err := c.WriteHTML(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func trimZeros(s string) string {
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
