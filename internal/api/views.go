package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"unicode/utf8"

	"product-catalog-admin/internal/form"
	"product-catalog-admin/internal/format"
	"product-catalog-admin/internal/listing"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"currency":  format.Currency,
	"shortDate": format.ShortDate,
	"firstTags": firstTags,
	"moreTags":  moreTags,
	"add":       func(a, b int) int { return a + b },
	"sub":       func(a, b int) int { return a - b },
	"runeCount": utf8.RuneCountInString,
}

func parseTemplates() *template.Template {
	return template.Must(template.New("admin").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}

// pageData is what every template receives.
type pageData struct {
	View           listing.View
	MaxDescription int
}

func newPageData(v listing.View) pageData {
	return pageData{View: v, MaxDescription: form.MaxDescriptionLength}
}

func firstTags(tags []string, n int) []string {
	if len(tags) <= n {
		return tags
	}
	return tags[:n]
}

// moreTags returns how many tags firstTags left out, or 0.
func moreTags(tags []string, n int) int {
	if len(tags) <= n {
		return 0
	}
	return len(tags) - n
}

// render executes the named template into a buffer so a template error
// never leaves a half-written page.
func (h *HTTPHandler) render(w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("rendering template failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
