package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/edvin/storefront/internal/api/middleware"
	"github.com/edvin/storefront/internal/api/request"
	"github.com/edvin/storefront/internal/api/response"
	"github.com/edvin/storefront/internal/i18n"
	"github.com/edvin/storefront/internal/storefront"
	"github.com/edvin/storefront/internal/web"
)

// Pages serves the server-rendered storefront. Every action is a form post
// answered with a redirect back to the page.
type Pages struct {
	templates *web.Templates
}

func NewPages(templates *web.Templates) *Pages {
	return &Pages{templates: templates}
}

type homePage struct {
	Page     storefront.PageState
	Messages i18n.Messages
}

var errNoSession = errors.New("no storefront session")

func (h *Pages) session(w http.ResponseWriter, r *http.Request) *storefront.Session {
	sess := mw.GetSession(r.Context())
	if sess == nil {
		renderHTTPError(w, r, h.templates, errNoSession, http.StatusInternalServerError)
	}
	return sess
}

func (h *Pages) Home(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	renderHTML(w, r, h.templates, http.StatusOK, "home", homePage{
		Page:     sess.Page.Render(),
		Messages: sess.App.Messages(),
	})
}

func (h *Pages) ActivateCard(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	index, err := request.CardIndex(chi.URLParam(r, "index"))
	if err != nil {
		renderHTTPError(w, r, h.templates, err, http.StatusBadRequest)
		return
	}

	switch err := sess.App.ActivateCard(index); {
	case errors.Is(err, storefront.ErrNotReady):
		renderHTTPError(w, r, h.templates, err, http.StatusServiceUnavailable)
	case errors.Is(err, storefront.ErrNoSuchCard):
		renderHTTPError(w, r, h.templates, err, http.StatusNotFound)
	case err != nil:
		renderHTTPError(w, r, h.templates, fmt.Errorf("activate card: %w", err), http.StatusInternalServerError)
	default:
		response.SeeOther(w, r, "/")
	}
}

// CloseOverlay handles the close control and background clicks.
func (h *Pages) CloseOverlay(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	if _, err := request.ParseCloseOverlay(r); err != nil {
		renderHTTPError(w, r, h.templates, err, http.StatusBadRequest)
		return
	}
	sess.App.CloseOverlay()
	response.SeeOther(w, r, "/")
}

func (h *Pages) Key(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	key, err := request.ParseKeyPress(r)
	if err != nil {
		renderHTTPError(w, r, h.templates, err, http.StatusBadRequest)
		return
	}
	sess.App.HandleKey(key.Key)
	response.SeeOther(w, r, "/")
}

func (h *Pages) PlayVideo(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	sess.App.PlayVideo()
	response.SeeOther(w, r, "/")
}

// StopScan releases the camera of the session's running scan.
func (h *Pages) StopScan(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	sess.App.StopScan()
	w.WriteHeader(http.StatusNoContent)
}
