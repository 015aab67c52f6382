package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome_RendersGridAndIssuesCookie(t *testing.T) {
	src := staticSource{cat: sampleCatalog(t)}
	router := newRouter(t, newSessions(src), src)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newGetRequest("/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Keten Gömlek")
	assert.Contains(t, body, "Kot Pantolon")
	assert.Contains(t, body, `action="/cards/1"`)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "shop_session-id", cookies[0].Name)
}

func TestHome_LoadErrorHidesGridAndScanner(t *testing.T) {
	src := staticSource{err: errCatalogDown}
	router := newRouter(t, newSessions(src), src)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newGetRequest("/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Veri yüklenirken bir hata oluştu. Lütfen daha sonra tekrar deneyin.")
	assert.NotContains(t, body, "product-card")
	assert.NotContains(t, body, "scan-button")
}

func TestActivateCard_OpensOverlay(t *testing.T) {
	src := staticSource{cat: sampleCatalog(t)}
	sessions := newSessions(src)
	router := newRouter(t, sessions, src)
	sess := newSession(t, sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newFormRequest("/cards/0", sess, nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	st := sess.App.State()
	assert.True(t, st.OverlayOpen)
	assert.Equal(t, "8690000000002", st.Selected.Barcode)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, newGetRequest("/", sess))
	assert.Contains(t, rec.Body.String(), "Barkod: 8690000000002")
	assert.Contains(t, rec.Body.String(), `action="/overlay/video"`)
}

func TestActivateCard_Errors(t *testing.T) {
	src := staticSource{cat: sampleCatalog(t)}
	sessions := newSessions(src)
	router := newRouter(t, sessions, src)
	sess := newSession(t, sessions)

	tests := []struct {
		target string
		code   int
	}{
		{"/cards/9", http.StatusNotFound},
		{"/cards/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, newFormRequest(tt.target, sess, nil))
		assert.Equal(t, tt.code, rec.Code, tt.target)
		assert.Contains(t, rec.Body.String(), http.StatusText(tt.code))
	}
	assert.False(t, sess.App.State().OverlayOpen)
}

func TestActivateCard_NotReady(t *testing.T) {
	src := staticSource{err: errCatalogDown}
	sessions := newSessions(src)
	router := newRouter(t, sessions, src)
	sess := newSession(t, sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newFormRequest("/cards/0", sess, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCloseOverlay(t *testing.T) {
	src := staticSource{cat: sampleCatalog(t)}
	sessions := newSessions(src)
	router := newRouter(t, sessions, src)
	sess := newSession(t, sessions)

	for _, via := range []string{"button", "background"} {
		require.NoError(t, sess.App.ActivateCard(0))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, newFormRequest("/overlay/close", sess, url.Values{"via": {via}}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.False(t, sess.App.State().OverlayOpen, via)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newFormRequest("/overlay/close", sess, url.Values{"via": {"swipe"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKeys(t *testing.T) {
	src := staticSource{cat: sampleCatalog(t)}
	sessions := newSessions(src)
	router := newRouter(t, sessions, src)
	sess := newSession(t, sessions)
	require.NoError(t, sess.App.ActivateCard(1))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newFormRequest("/keys", sess, url.Values{"key": {"Enter"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, sess.App.State().OverlayOpen)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, newFormRequest("/keys", sess, url.Values{"key": {"Escape"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, sess.App.State().OverlayOpen)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, newFormRequest("/keys", sess, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayVideo(t *testing.T) {
	src := staticSource{cat: sampleCatalog(t)}
	sessions := newSessions(src)
	router := newRouter(t, sessions, src)
	sess := newSession(t, sessions)
	require.NoError(t, sess.App.ActivateCard(0))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newFormRequest("/overlay/video", sess, nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	video := sess.Page.State().Video
	require.NotNil(t, video)
	assert.Equal(t, "https://www.youtube.com/embed/abc123?autoplay=1&rel=0", video.Src)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, newGetRequest("/", sess))
	assert.Contains(t, rec.Body.String(), "<iframe")
}

func TestStopScan_NoActiveScan(t *testing.T) {
	src := staticSource{cat: sampleCatalog(t)}
	sessions := newSessions(src)
	router := newRouter(t, sessions, src)
	sess := newSession(t, sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newFormRequest("/scan/stop", sess, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
