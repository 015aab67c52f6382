package model

// Document is the wire shape of the catalog data file. It decodes from
// both JSON and YAML. Both sections and the product list are required;
// an explicit empty list is a valid, empty catalog.
type Document struct {
	App  *DocumentApp  `json:"app" yaml:"app" validate:"required"`
	Data *DocumentData `json:"data" yaml:"data" validate:"required"`
}

type DocumentApp struct {
	Title string `json:"title" yaml:"title"`
	Desc  string `json:"desc" yaml:"desc"`
}

type DocumentData struct {
	Products []DocumentProduct `json:"products" yaml:"products" validate:"required,dive"`
}

type DocumentProduct struct {
	Barcode   string `json:"barcode" yaml:"barcode" validate:"required"`
	Name      string `json:"name" yaml:"name" validate:"required"`
	Price     string `json:"price" yaml:"price"`
	Photo1    string `json:"photo1" yaml:"photo1"`
	Desc      string `json:"desc" yaml:"desc"`
	Video1    string `json:"video1" yaml:"video1"`
	VideoURL1 string `json:"videoUrl1,omitempty" yaml:"videoUrl1,omitempty" validate:"omitempty,url"`
}

// AppConfig converts the document into the in-memory catalog form,
// preserving product order.
func (d *Document) AppConfig() *AppConfig {
	var (
		app  DocumentApp
		data DocumentData
	)
	if d.App != nil {
		app = *d.App
	}
	if d.Data != nil {
		data = *d.Data
	}

	products := make([]*Product, len(data.Products))
	for i, p := range data.Products {
		products[i] = &Product{
			Barcode:     p.Barcode,
			Name:        p.Name,
			Price:       p.Price,
			PhotoURL:    p.Photo1,
			Description: p.Desc,
			VideoLabel:  p.Video1,
			VideoURL:    p.VideoURL1,
		}
	}
	return &AppConfig{
		Title:       app.Title,
		Description: app.Desc,
		Products:    products,
	}
}
