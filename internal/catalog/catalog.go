package catalog

import (
	"fmt"

	"github.com/edvin/storefront/internal/model"
)

// Catalog is an immutable, loaded storefront document with a barcode index.
// Product pointers handed out by a Catalog always refer to elements of the
// loaded slice.
type Catalog struct {
	config    *model.AppConfig
	byBarcode map[string]*model.Product
}

// New indexes cfg. Duplicate or empty barcodes are rejected because the
// barcode is the scan lookup key.
func New(cfg *model.AppConfig) (*Catalog, error) {
	index := make(map[string]*model.Product, len(cfg.Products))
	for i, p := range cfg.Products {
		if p == nil {
			return nil, fmt.Errorf("product %d: missing entry", i)
		}
		if p.Barcode == "" {
			return nil, fmt.Errorf("product %d: empty barcode", i)
		}
		if _, dup := index[p.Barcode]; dup {
			return nil, fmt.Errorf("product %d: duplicate barcode %q", i, p.Barcode)
		}
		index[p.Barcode] = p
	}
	if cfg.Products == nil {
		cfg.Products = []*model.Product{}
	}
	return &Catalog{config: cfg, byBarcode: index}, nil
}

func (c *Catalog) Title() string       { return c.config.Title }
func (c *Catalog) Description() string { return c.config.Description }

// Config returns the underlying document. Callers must not mutate it.
func (c *Catalog) Config() *model.AppConfig { return c.config }

// Products returns the products in source order.
func (c *Catalog) Products() []*model.Product { return c.config.Products }

func (c *Catalog) Len() int { return len(c.config.Products) }

// At returns the product at index i in source order.
func (c *Catalog) At(i int) (*model.Product, bool) {
	if i < 0 || i >= len(c.config.Products) {
		return nil, false
	}
	return c.config.Products[i], true
}

// Match looks a product up by exact barcode equality.
func (c *Catalog) Match(barcode string) (*model.Product, bool) {
	p, ok := c.byBarcode[barcode]
	return p, ok
}

// ErrNotLoaded is reported by a Store before its first reload.
var ErrNotLoaded = fmt.Errorf("%w: not loaded yet", ErrLoad)
