package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/edvin/storefront/internal/catalog"
	"github.com/edvin/storefront/internal/i18n"
	"github.com/edvin/storefront/internal/model"
	"github.com/edvin/storefront/internal/scanner"
)

var (
	// ErrNotReady is returned by operations that need a loaded catalog.
	ErrNotReady = errors.New("catalog not loaded")
	// ErrNoSuchCard is returned for card indexes outside the grid.
	ErrNoSuchCard = errors.New("no such card")
)

// Source provides the catalog an App starts from.
type Source interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// State is the explicit controller state.
type State struct {
	Catalog      *catalog.Catalog
	Selected     *model.Product
	OverlayOpen  bool
	VideoPlaying bool
	Scanning     bool
	Scanner      scanner.State
	Ready        bool
}

// App is the storefront controller for one shopper. All operations are
// serialized, mirroring a single UI event loop.
type App struct {
	logger   zerolog.Logger
	view     View
	msgs     i18n.Messages
	decoder  scanner.Decoder
	observer scanner.Observer

	mu       sync.Mutex
	catalog  *catalog.Catalog
	overlay  *Overlay
	video    *VideoPanel
	scanner  *scanner.Scanner
	scanning bool
	scanGen  uint64
}

type AppOption func(*App)

// WithScanObserver reports scan outcomes of the App's scanner to o.
func WithScanObserver(o scanner.Observer) AppOption {
	return func(a *App) { a.observer = o }
}

func NewApp(logger zerolog.Logger, view View, msgs i18n.Messages, decoder scanner.Decoder, opts ...AppOption) *App {
	video := NewVideoPanel(view)
	a := &App{
		logger:  logger.With().Str("component", "storefront").Logger(),
		view:    view,
		msgs:    msgs,
		decoder: decoder,
		video:   video,
		overlay: NewOverlay(view, msgs, video),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init loads the catalog and renders the page. On failure the localized
// load error replaces the grid and no scanner is set up; calling Init again
// retries. Once a catalog is in place Init is a no-op.
func (a *App) Init(ctx context.Context, src Source) error {
	if a.State().Ready {
		return nil
	}

	cat, err := src.Load(ctx)
	if err == nil && cat == nil {
		err = catalog.ErrNotLoaded
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.catalog != nil {
		return nil
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("catalog unavailable")
		a.view.ShowLoadError(a.msgs.LoadError)
		return fmt.Errorf("init storefront: %w", err)
	}

	a.catalog = cat
	a.view.SetHeader(cat.Title(), cat.Description())
	RenderCatalog(a.view, cat.Products())

	var opts []scanner.Option
	if a.observer != nil {
		opts = append(opts, scanner.WithObserver(a.observer))
	}
	a.scanner = scanner.New(a.logger, a.decoder, cat, opts...)
	return nil
}

// ActivateCard opens the overlay on the product behind card i.
func (a *App) ActivateCard(i int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.catalog == nil {
		return ErrNotReady
	}
	p, ok := a.catalog.At(i)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchCard, i)
	}
	a.overlay.Open(p)
	return nil
}

// CloseOverlay handles the close control and overlay background clicks.
func (a *App) CloseOverlay() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overlay.Close()
}

// HandleKey dispatches a key press.
func (a *App) HandleKey(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overlay.HandleKey(key)
}

// PlayVideo plays the selected product's video.
func (a *App) PlayVideo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overlay.PlayVideo()
}

// Scan runs one scan session on camera and applies its outcome. It blocks
// until the session ends.
func (a *App) Scan(ctx context.Context, camera scanner.Camera) error {
	a.mu.Lock()
	sc := a.scanner
	if sc == nil {
		a.mu.Unlock()
		return ErrNotReady
	}
	a.scanGen++
	gen := a.scanGen
	a.setScanning(true)
	a.mu.Unlock()

	events, err := sc.Start(ctx, camera)
	if err != nil {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.scanGen == gen {
			a.setScanning(false)
			if errors.Is(err, scanner.ErrCamera) {
				a.view.Notify(Notice{Kind: NoticeAlert, Text: a.msgs.CameraError})
			}
		}
		return err
	}

	for ev := range events {
		if !ev.Terminal() {
			continue
		}
		a.mu.Lock()
		a.apply(gen, ev)
		a.mu.Unlock()
	}
	return nil
}

func (a *App) apply(gen uint64, ev scanner.Event) {
	if a.scanGen == gen {
		a.setScanning(false)
	}
	switch ev.Kind {
	case scanner.EventMatched:
		a.overlay.Open(ev.Product)
	case scanner.EventNoMatch:
		a.view.Notify(Notice{Kind: NoticeToast, Text: a.msgs.NoMatchFor(ev.Code)})
	case scanner.EventError:
		a.view.Notify(Notice{Kind: NoticeAlert, Text: a.msgs.CameraError})
	}
}

// StopScan ends the active scan session, releasing the camera.
func (a *App) StopScan() {
	a.mu.Lock()
	sc := a.scanner
	a.mu.Unlock()
	if sc != nil {
		sc.Stop()
	}
}

func (a *App) setScanning(active bool) {
	a.scanning = active
	a.view.ShowScanner(active)
}

// State returns a copy of the controller state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := State{
		Catalog:      a.catalog,
		Selected:     a.overlay.Selected(),
		OverlayOpen:  a.overlay.IsOpen(),
		VideoPlaying: a.video.Playing(),
		Scanning:     a.scanning,
		Ready:        a.catalog != nil,
	}
	if a.scanner != nil {
		st.Scanner = a.scanner.State()
	}
	return st
}

// Messages returns the language the App was created with.
func (a *App) Messages() i18n.Messages { return a.msgs }
