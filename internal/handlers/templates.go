package handlers

import (
	"embed"
	"html/template"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// productForm alimente les formulaires répétés par produit (panier, wishlist).
type productForm struct {
	ID        gocql.UUID
	CsrfField template.HTML
}

// Templates analyse les pages embarquées ; à passer à gin.Engine.SetHTMLTemplate.
func Templates() (*template.Template, error) {
	funcs := template.FuncMap{
		"money":      func(d decimal.Decimal) string { return d.StringFixed(2) },
		"discounted": func(d decimal.Decimal) bool { return d.IsPositive() },
		"productForm": func(id gocql.UUID, field template.HTML) productForm {
			return productForm{ID: id, CsrfField: field}
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
