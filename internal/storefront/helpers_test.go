package storefront

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/edvin/storefront/internal/catalog"
	"github.com/edvin/storefront/internal/model"
	"github.com/edvin/storefront/internal/scanner"
)

func sampleCatalog() *catalog.Catalog {
	cat, err := catalog.New(&model.AppConfig{
		Title:       "Mağaza",
		Description: "Yeni sezon",
		Products: []*model.Product{
			{Barcode: "8690000000002", Name: "Keten Gömlek", Price: "₺499,90", PhotoURL: "https://cdn.example.com/shirt.jpg", Description: "Yazlık", VideoLabel: "Tanıtım", VideoURL: "https://www.youtube.com/embed/abc123"},
			{Barcode: "8690000000019", Name: "Kot Pantolon", Price: "₺799,00", PhotoURL: "https://cdn.example.com/jeans.jpg", Description: "Slim fit"},
		},
	})
	if err != nil {
		panic(err)
	}
	return cat
}

type staticSource struct {
	cat *catalog.Catalog
	err error
}

func (s staticSource) Load(context.Context) (*catalog.Catalog, error) { return s.cat, s.err }

// swapSource serves whatever catalog or error was set last.
type swapSource struct {
	mu  sync.Mutex
	cat *catalog.Catalog
	err error
}

func (s *swapSource) set(cat *catalog.Catalog, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cat, s.err = cat, err
}

func (s *swapSource) Load(context.Context) (*catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat, s.err
}

var errHTTP500 = errors.New("catalog load failed: unexpected status 500")

// frame carries the text the fake decoder reads.
type frame struct{ code string }

func (frame) ColorModel() color.Model { return color.GrayModel }
func (frame) Bounds() image.Rectangle { return image.Rect(0, 0, 1, 1) }
func (frame) At(int, int) color.Color { return color.Gray{} }

var fakeDecoder = scanner.DecoderFunc(func(img image.Image) (string, error) {
	if f, ok := img.(frame); ok && f.code != "" {
		return f.code, nil
	}
	return "", scanner.ErrNoCode
})

type track struct{ stopped atomic.Bool }

func (t *track) Stop() { t.stopped.Store(true) }

type stream struct {
	frames chan image.Image
	track  *track
}

func (s *stream) Frames() <-chan image.Image { return s.frames }
func (s *stream) Tracks() []scanner.Track    { return []scanner.Track{s.track} }

type camera struct {
	stream *stream
	err    error
}

func newCamera() *camera {
	return &camera{stream: &stream{frames: make(chan image.Image, 1), track: &track{}}}
}

func (c *camera) Acquire(context.Context, scanner.Constraints) (scanner.Stream, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.stream, nil
}
