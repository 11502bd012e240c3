// Package render turns the offer lifecycle state into the landing page HTML.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/use-agent/offerpage/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PageTemplate is the name of the root template.
const PageTemplate = "page"

// Renderer holds the parsed page templates. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New(PageTemplate).
		Funcs(template.FuncMap{
			"inc": func(i int) int { return i + 1 },
		}).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Template exposes the parsed set, for gin's SetHTMLTemplate.
func (r *Renderer) Template() *template.Template {
	return r.tmpl
}

// Render writes the page for p to w.
func (r *Renderer) Render(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, PageTemplate, p)
}

// StatusFor maps a phase to the HTTP status the page is served with.
func StatusFor(phase models.Phase) int {
	if phase == models.PhaseError {
		return http.StatusBadGateway
	}
	return http.StatusOK
}
