package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/edvin/storefront/internal/api/middleware"
	"github.com/edvin/storefront/internal/api/request"
	"github.com/edvin/storefront/internal/api/response"
	"github.com/edvin/storefront/internal/storefront"
)

type Catalog struct {
	source storefront.Source
}

func NewCatalog(source storefront.Source) *Catalog {
	return &Catalog{source: source}
}

func (h *Catalog) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.source.Load(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, cat.Config())
}

func (h *Catalog) Product(w http.ResponseWriter, r *http.Request) {
	barcode, err := request.RequireBarcode(chi.URLParam(r, "barcode"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := h.source.Load(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	p, ok := cat.Match(barcode)
	if !ok {
		response.WriteError(w, http.StatusNotFound, "product not found")
		return
	}

	response.WriteJSON(w, http.StatusOK, p)
}

type sessionState struct {
	Ready       bool                 `json:"ready"`
	OverlayOpen bool                 `json:"overlay_open"`
	Selected    string               `json:"selected,omitempty"`
	Page        storefront.PageState `json:"page"`
}

// State returns the session's view-model without consuming notices.
func State(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r.Context())
	if sess == nil {
		response.WriteError(w, http.StatusInternalServerError, errNoSession.Error())
		return
	}

	st := sess.App.State()
	out := sessionState{
		Ready:       st.Ready,
		OverlayOpen: st.OverlayOpen,
		Page:        sess.Page.State(),
	}
	if st.Selected != nil {
		out.Selected = st.Selected.Barcode
	}
	response.WriteJSON(w, http.StatusOK, out)
}
