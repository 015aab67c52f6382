package storefront

import (
	"github.com/edvin/storefront/internal/i18n"
	"github.com/edvin/storefront/internal/model"
)

// KeyEscape closes the overlay.
const KeyEscape = "Escape"

// Overlay is the product detail modal. It is either closed or open on
// exactly one product.
type Overlay struct {
	view     View
	msgs     i18n.Messages
	video    *VideoPanel
	selected *model.Product
	open     bool
}

func NewOverlay(view View, msgs i18n.Messages, video *VideoPanel) *Overlay {
	return &Overlay{view: view, msgs: msgs, video: video}
}

// Open shows p, replacing whatever the overlay showed before.
func (o *Overlay) Open(p *model.Product) {
	o.selected = p
	o.view.ShowDetail(Detail{
		Name:         p.Name,
		PhotoURL:     p.PhotoURL,
		Alt:          p.Name,
		Price:        p.Price,
		Barcode:      p.Barcode,
		BarcodeLabel: o.msgs.Barcode(p.Barcode),
		Description:  p.Description,
		VideoTitle:   p.VideoLabel,
		HasVideo:     p.HasVideo(),
	})
	o.video.Reset()
	o.view.LockScroll(true)
	o.open = true
}

// Close hides the overlay. It reports false when it was already closed.
func (o *Overlay) Close() bool {
	if !o.open {
		return false
	}
	o.open = false
	o.view.HideDetail()
	o.view.LockScroll(false)
	o.video.Reset()
	return true
}

// HandleKey closes the overlay on Escape while open; other keys are ignored.
func (o *Overlay) HandleKey(key string) bool {
	if key != KeyEscape {
		return false
	}
	return o.Close()
}

// PlayVideo plays the selected product's video, if any.
func (o *Overlay) PlayVideo() bool {
	if !o.open {
		return false
	}
	return o.video.Play(o.selected)
}

func (o *Overlay) IsOpen() bool { return o.open }

// Selected is the last opened product. It stays set after Close.
func (o *Overlay) Selected() *model.Product { return o.selected }
