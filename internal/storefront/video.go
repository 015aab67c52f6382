package storefront

import (
	"net/url"

	"github.com/edvin/storefront/internal/model"
)

// EmbedAllow is the permission policy of the embedded player.
const EmbedAllow = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share"

// VideoPanel swaps the placeholder inside the overlay for an embedded
// player on demand.
type VideoPanel struct {
	view    View
	playing bool
}

func NewVideoPanel(view View) *VideoPanel {
	return &VideoPanel{view: view}
}

// Play embeds p's video. It is a no-op without a product or video URL.
func (v *VideoPanel) Play(p *model.Product) bool {
	if !p.HasVideo() {
		return false
	}
	// Drop any previous player before embedding the new one.
	v.view.ShowVideoPlaceholder()
	v.view.EmbedVideo(Embed{
		Src:             EmbedSrc(p.VideoURL),
		Title:           p.VideoLabel,
		Allow:           EmbedAllow,
		AllowFullscreen: true,
		FrameBorder:     0,
	})
	v.playing = true
	return true
}

// Reset discards the player and shows the placeholder again.
func (v *VideoPanel) Reset() {
	v.view.ShowVideoPlaceholder()
	v.playing = false
}

func (v *VideoPanel) Playing() bool { return v.playing }

// EmbedSrc adds autoplay=1 and rel=0 to a video URL, keeping any query it
// already has.
func EmbedSrc(videoURL string) string {
	u, err := url.Parse(videoURL)
	if err != nil {
		return videoURL + "?autoplay=1&rel=0"
	}
	q := u.Query()
	q.Set("autoplay", "1")
	q.Set("rel", "0")
	u.RawQuery = q.Encode()
	return u.String()
}
