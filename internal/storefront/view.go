// Package storefront holds the shopper-facing UI state machine: the catalog
// grid, the detail overlay with its video panel, and the wiring of barcode
// scans into the overlay. Updates are pushed through a View so the same
// controller can drive server-rendered pages and tests.
package storefront

// Card is one grid entry. Animate asks for the entry animation.
type Card struct {
	Index    int    `json:"index"`
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	PhotoURL string `json:"photo_url"`
	Alt      string `json:"alt"`
	Lazy     bool   `json:"lazy"`
	Animate  bool   `json:"animate"`
}

// Detail is the content of the open overlay.
type Detail struct {
	Name         string `json:"name"`
	PhotoURL     string `json:"photo_url"`
	Alt          string `json:"alt"`
	Price        string `json:"price"`
	Barcode      string `json:"barcode"`
	BarcodeLabel string `json:"barcode_label"`
	Description  string `json:"description"`
	VideoTitle   string `json:"video_title"`
	HasVideo     bool   `json:"has_video"`
}

// Embed describes an embedded video player.
type Embed struct {
	Src             string `json:"src"`
	Title           string `json:"title"`
	Allow           string `json:"allow"`
	AllowFullscreen bool   `json:"allow_fullscreen"`
	FrameBorder     int    `json:"frame_border"`
}

type NoticeKind string

const (
	// NoticeToast is a passive, dismissable message.
	NoticeToast NoticeKind = "toast"
	// NoticeAlert is a blocking message.
	NoticeAlert NoticeKind = "alert"
)

type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

// View receives every visible change the controller makes.
type View interface {
	SetHeader(title, description string)
	ShowLoadError(message string)
	RenderGrid(cards []Card)
	ShowDetail(d Detail)
	HideDetail()
	ShowVideoPlaceholder()
	EmbedVideo(e Embed)
	LockScroll(locked bool)
	ShowScanner(active bool)
	Notify(n Notice)
}
