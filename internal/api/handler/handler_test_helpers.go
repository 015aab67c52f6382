package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	mw "github.com/edvin/storefront/internal/api/middleware"
	"github.com/edvin/storefront/internal/catalog"
	"github.com/edvin/storefront/internal/i18n"
	"github.com/edvin/storefront/internal/model"
	"github.com/edvin/storefront/internal/scanner"
	"github.com/edvin/storefront/internal/storefront"
	"github.com/edvin/storefront/internal/web"
)

type staticSource struct {
	cat *catalog.Catalog
	err error
}

func (s staticSource) Load(context.Context) (*catalog.Catalog, error) { return s.cat, s.err }

var errCatalogDown = errors.New("catalog load failed: unexpected status 500")

func sampleCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(&model.AppConfig{
		Title:       "Mağaza",
		Description: "Yeni sezon",
		Products: []*model.Product{
			{Barcode: "8690000000002", Name: "Keten Gömlek", Price: "₺499,90", VideoLabel: "Tanıtım", VideoURL: "https://www.youtube.com/embed/abc123"},
			{Barcode: "8690000000019", Name: "Kot Pantolon", Price: "₺799,00"},
		},
	})
	require.NoError(t, err)
	return cat
}

// widthDecoder reads frames 2px wide as the shirt barcode and 3px wide as
// an unknown one. Anything else is noise.
var widthDecoder = scanner.DecoderFunc(func(img image.Image) (string, error) {
	switch img.Bounds().Dx() {
	case 2:
		return "8690000000002", nil
	case 3:
		return "8690000000001", nil
	default:
		return "", scanner.ErrNoCode
	}
})

func pngFrame(t *testing.T, width int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, width, 1))))
	return buf.Bytes()
}

func newSessions(src storefront.Source) *storefront.Sessions {
	return storefront.NewSessions(zerolog.Nop(), storefront.SessionsConfig{
		Source:      src,
		Bundle:      i18n.NewBundle("tr"),
		NewDecoder:  func() scanner.Decoder { return widthDecoder },
		IdleTimeout: time.Minute,
	})
}

// newRouter wires the session routes the way the API server does.
func newRouter(t *testing.T, sessions *storefront.Sessions, src storefront.Source) chi.Router {
	t.Helper()
	templates, err := web.ParseTemplates()
	require.NoError(t, err)

	r := chi.NewRouter()
	c := NewCatalog(src)
	r.Get("/api/catalog", c.Get)
	r.Get("/api/products/{barcode}", c.Product)
	r.Group(func(r chi.Router) {
		r.Use(mw.Session(sessions))
		pages := NewPages(templates)
		r.Get("/", pages.Home)
		r.Post("/cards/{index}", pages.ActivateCard)
		r.Post("/overlay/close", pages.CloseOverlay)
		r.Post("/overlay/video", pages.PlayVideo)
		r.Post("/keys", pages.Key)
		r.Get("/scan", NewScan(1<<20).Connect)
		r.Post("/scan/stop", pages.StopScan)
		r.Get("/api/state", State)
	})
	return r
}

func newSession(t *testing.T, sessions *storefront.Sessions) *storefront.Session {
	t.Helper()
	sess, created := sessions.Get(context.Background(), "", "")
	require.True(t, created)
	return sess
}

func sessionCookie(sess *storefront.Session) *http.Cookie {
	return &http.Cookie{Name: mw.CookieSessionID, Value: sess.ID}
}

// newFormRequest creates a form post carrying the session cookie.
func newFormRequest(target string, sess *storefront.Session, values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sess != nil {
		r.AddCookie(sessionCookie(sess))
	}
	return r
}

func newGetRequest(target string, sess *storefront.Session) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	if sess != nil {
		r.AddCookie(sessionCookie(sess))
	}
	return r
}

// decodeErrorResponse parses the JSON error response body into a map.
func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}
