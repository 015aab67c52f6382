// Package web embeds the storefront page templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates holds the parsed page templates.
type Templates struct {
	t *template.Template
}

func ParseTemplates() (*Templates, error) {
	t, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Templates{t: t}, nil
}

// Execute renders the named template.
func (t *Templates) Execute(w io.Writer, name string, data any) error {
	return t.t.ExecuteTemplate(w, name, data)
}

// Static serves the embedded assets, rooted so /static/app.js maps to
// static/app.js.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
