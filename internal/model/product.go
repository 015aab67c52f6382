package model

// Product is one catalog entry. Price is a pre-formatted display value.
type Product struct {
	Barcode     string `json:"barcode"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	PhotoURL    string `json:"photo_url"`
	Description string `json:"description"`
	VideoLabel  string `json:"video_label"`
	VideoURL    string `json:"video_url,omitempty"`
}

// HasVideo reports whether the product links a playable video.
func (p *Product) HasVideo() bool {
	return p != nil && p.VideoURL != ""
}

// AppConfig is the storefront document loaded once at startup.
type AppConfig struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Products    []*Product `json:"products"`
}
