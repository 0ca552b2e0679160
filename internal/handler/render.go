package handler

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/Lank-karim/test-gestion-Biblioth-que/web"
)

// Renderer serves the embedded page templates; every page template is
// named after its file.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("").ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
