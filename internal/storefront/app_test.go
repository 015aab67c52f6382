package storefront

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/storefront/internal/i18n"
	"github.com/edvin/storefront/internal/scanner"
)

func newApp(t *testing.T, src Source) (*App, *Page) {
	t.Helper()
	page := NewPage()
	app := NewApp(zerolog.Nop(), page, i18n.Lookup("tr"), fakeDecoder)
	_ = app.Init(context.Background(), src)
	return app, page
}

func TestInit_RendersCatalog(t *testing.T) {
	app, page := newApp(t, staticSource{cat: sampleCatalog()})

	st := page.State()
	assert.Equal(t, "Mağaza", st.Title)
	assert.Equal(t, "Yeni sezon", st.Description)
	assert.Len(t, st.Cards, 2)
	assert.Empty(t, st.LoadError)
	assert.True(t, app.State().Ready)
}

func TestInit_LoadFailure(t *testing.T) {
	page := NewPage()
	app := NewApp(zerolog.Nop(), page, i18n.Lookup("tr"), fakeDecoder)

	err := app.Init(context.Background(), staticSource{err: errHTTP500})
	require.Error(t, err)
	assert.ErrorIs(t, err, errHTTP500)

	st := page.State()
	assert.Equal(t, "Veri yüklenirken bir hata oluştu. Lütfen daha sonra tekrar deneyin.", st.LoadError)
	assert.Empty(t, st.Cards)
	assert.False(t, app.State().Ready)

	err = app.Scan(context.Background(), newCamera())
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, app.ActivateCard(0), ErrNotReady)
}

func TestInit_RetryAfterFailure(t *testing.T) {
	page := NewPage()
	app := NewApp(zerolog.Nop(), page, i18n.Lookup("tr"), fakeDecoder)

	require.Error(t, app.Init(context.Background(), staticSource{err: errHTTP500}))
	require.NoError(t, app.Init(context.Background(), staticSource{cat: sampleCatalog()}))

	st := page.State()
	assert.Empty(t, st.LoadError)
	assert.Len(t, st.Cards, 2)
	assert.True(t, app.State().Ready)
	assert.NoError(t, app.ActivateCard(0))
}

func TestInit_NoOpOnceLoaded(t *testing.T) {
	app, page := newApp(t, staticSource{cat: sampleCatalog()})
	before := app.State().Catalog

	require.NoError(t, app.Init(context.Background(), staticSource{err: errHTTP500}))
	assert.Same(t, before, app.State().Catalog)
	assert.Empty(t, page.State().LoadError)
}

func TestActivateCard(t *testing.T) {
	app, page := newApp(t, staticSource{cat: sampleCatalog()})

	require.NoError(t, app.ActivateCard(1))
	st := app.State()
	p, _ := st.Catalog.At(1)
	assert.Same(t, p, st.Selected)
	assert.True(t, st.OverlayOpen)
	assert.Equal(t, "Kot Pantolon", page.State().Detail.Name)

	assert.ErrorIs(t, app.ActivateCard(2), ErrNoSuchCard)
	assert.ErrorIs(t, app.ActivateCard(-1), ErrNoSuchCard)
}

func TestCloseOverlayAndKeys(t *testing.T) {
	app, _ := newApp(t, staticSource{cat: sampleCatalog()})

	require.NoError(t, app.ActivateCard(0))
	assert.False(t, app.HandleKey("a"))
	assert.True(t, app.HandleKey(KeyEscape))
	assert.False(t, app.State().OverlayOpen)

	require.NoError(t, app.ActivateCard(0))
	assert.True(t, app.CloseOverlay())
	assert.False(t, app.CloseOverlay())
}

func TestPlayVideo(t *testing.T) {
	app, page := newApp(t, staticSource{cat: sampleCatalog()})

	assert.False(t, app.PlayVideo(), "nothing selected")

	require.NoError(t, app.ActivateCard(1))
	assert.False(t, app.PlayVideo(), "no video url")
	assert.Nil(t, page.State().Video)

	require.NoError(t, app.ActivateCard(0))
	assert.True(t, app.PlayVideo())
	assert.True(t, app.State().VideoPlaying)
	require.NotNil(t, page.State().Video)

	app.CloseOverlay()
	assert.False(t, app.State().VideoPlaying)
}

func scanAsync(app *App, cam scanner.Camera) <-chan error {
	done := make(chan error, 1)
	go func() { done <- app.Scan(context.Background(), cam) }()
	return done
}

func waitScan(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("scan did not finish")
		return nil
	}
}

func waitScanning(t *testing.T, app *App) {
	t.Helper()
	require.Eventually(t, func() bool {
		return app.State().Scanner == scanner.StateScanning
	}, time.Second, 5*time.Millisecond)
}

func TestScan_MatchOpensProduct(t *testing.T) {
	app, page := newApp(t, staticSource{cat: sampleCatalog()})
	cam := newCamera()

	done := scanAsync(app, cam)
	cam.stream.frames <- frame{}
	cam.stream.frames <- frame{code: "8690000000002"}
	require.NoError(t, waitScan(t, done))

	st := app.State()
	assert.True(t, st.OverlayOpen)
	p, _ := st.Catalog.At(0)
	assert.Same(t, p, st.Selected)
	assert.False(t, st.Scanning)
	assert.True(t, cam.stream.track.stopped.Load())
	assert.False(t, page.State().Scanning)
	assert.Empty(t, page.State().Notices)
}

func TestScan_NoMatchShowsNotice(t *testing.T) {
	app, page := newApp(t, staticSource{cat: sampleCatalog()})
	cam := newCamera()

	done := scanAsync(app, cam)
	cam.stream.frames <- frame{code: "8690000000001"}
	require.NoError(t, waitScan(t, done))

	st := app.State()
	assert.False(t, st.OverlayOpen)
	assert.Nil(t, st.Selected)
	assert.True(t, cam.stream.track.stopped.Load())

	notices := page.Render().Notices
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeToast, notices[0].Kind)
	assert.Equal(t, "Bu barkoda ait ürün bulunamadı: 8690000000001", notices[0].Text)
}

func TestScan_CameraDenied(t *testing.T) {
	app, page := newApp(t, staticSource{cat: sampleCatalog()})
	cam := &camera{err: errors.New("NotAllowedError")}

	err := app.Scan(context.Background(), cam)
	require.Error(t, err)
	assert.ErrorIs(t, err, scanner.ErrCamera)

	st := page.State()
	assert.False(t, st.Scanning)
	require.Len(t, st.Notices, 1)
	assert.Equal(t, NoticeAlert, st.Notices[0].Kind)
	assert.Equal(t, "Kamera erişimi sağlanamadı. Lütfen kamera izinlerini kontrol edin.", st.Notices[0].Text)
	assert.Nil(t, app.State().Selected)
}

func TestStopScan(t *testing.T) {
	app, page := newApp(t, staticSource{cat: sampleCatalog()})
	cam := newCamera()

	done := scanAsync(app, cam)
	waitScanning(t, app)
	assert.True(t, page.State().Scanning)

	app.StopScan()
	assert.True(t, cam.stream.track.stopped.Load())
	require.NoError(t, waitScan(t, done))

	assert.False(t, page.State().Scanning)
	assert.Empty(t, page.State().Notices)
	assert.False(t, app.State().OverlayOpen)
}

func TestStopScan_WithoutScanner(t *testing.T) {
	app, _ := newApp(t, staticSource{err: errHTTP500})
	app.StopScan()
}
