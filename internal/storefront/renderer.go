package storefront

import "github.com/edvin/storefront/internal/model"

// RenderCatalog replaces the grid with one card per product, in order.
// Card i always refers to products[i].
func RenderCatalog(view View, products []*model.Product) {
	cards := make([]Card, 0, len(products))
	for i, p := range products {
		cards = append(cards, Card{
			Index:    i,
			Barcode:  p.Barcode,
			Name:     p.Name,
			Price:    p.Price,
			PhotoURL: p.PhotoURL,
			Alt:      p.Name,
			Lazy:     true,
			Animate:  true,
		})
	}
	view.RenderGrid(cards)
}
