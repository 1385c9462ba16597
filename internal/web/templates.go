// Package web serves the HTML intake and diagnosis pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	intakePage    = "intake"
	diagnosisPage = "diagnosis"
)

// Renderer is an echo.Renderer holding one template set per page, each a
// clone of the shared base layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{intakePage, diagnosisPage} {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base template: %w", err)
		}
		t, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}

// Banner is a status message shown above the page content.
type Banner struct {
	Kind    string // success, error, warning
	Message string
	Detail  string
}

type layout struct {
	Title   string
	Banners []Banner
}

func (l *layout) addError(msg string, err error) {
	b := Banner{Kind: "error", Message: msg}
	if err != nil {
		b.Detail = err.Error()
	}
	l.Banners = append(l.Banners, b)
}
