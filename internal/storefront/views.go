package storefront

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// views holds the embedded page templates. Pages are rendered into a buffer
// here instead of through gin's SetHTMLTemplate/c.HTML, which streams straight
// to the response and can leave half a page behind when a template fails.
type views struct {
	tmpl *template.Template
}

func loadViews() (*views, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"fcfa": formatFCFA,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &views{tmpl: tmpl}, nil
}

// render buffers the page so a template error never sends half a document.
func (v *views) render(c *gin.Context, code int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		c.String(http.StatusInternalServerError, "template %s: %v", name, err)
		return
	}
	c.Data(code, "text/html; charset=utf-8", buf.Bytes())
}

// formatFCFA renders 45000 as "45 000 FCFA".
func formatFCFA(d decimal.Decimal) string {
	s := d.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out) + " FCFA"
	}
	return string(out) + " FCFA"
}

func formatNullFCFA(d decimal.NullDecimal, fallback string) string {
	if !d.Valid {
		return fallback
	}
	return formatFCFA(d.Decimal)
}

func venueLabel(v string) string {
	switch v {
	case "intérieur":
		return "Intérieur"
	case "extérieur":
		return "Extérieur"
	}
	return v
}
