package handler

import (
	"bytes"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/storefront/internal/web"
)

type errorPage struct {
	StatusCode int
	Status     string
	Error      string
}

// renderHTML executes a template into a buffer first so a failing template
// never leaves a half-written page.
func renderHTML(w http.ResponseWriter, r *http.Request, tpl *web.Templates, status int, name string, data any) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("template execution failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func renderHTTPError(w http.ResponseWriter, r *http.Request, tpl *web.Templates, err error, code int) {
	ev := zerolog.Ctx(r.Context()).Warn()
	if code >= http.StatusInternalServerError {
		ev = zerolog.Ctx(r.Context()).Error()
	}
	ev.Err(err).Int("status", code).Msg("request error")

	renderHTML(w, r, tpl, code, "error", errorPage{
		StatusCode: code,
		Status:     http.StatusText(code),
		Error:      err.Error(),
	})
}
