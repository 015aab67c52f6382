package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentAppConfig_MapsFields(t *testing.T) {
	doc := &Document{
		App: &DocumentApp{Title: "Mağaza", Desc: "Yeni sezon"},
		Data: &DocumentData{Products: []DocumentProduct{
			{
				Barcode:   "8690000000001",
				Name:      "Keten Gömlek",
				Price:     "₺899,90",
				Photo1:    "img/gomlek.jpg",
				Desc:      "Yazlık keten gömlek",
				Video1:    "Tanıtım",
				VideoURL1: "https://www.youtube.com/embed/abc",
			},
		}},
	}

	cfg := doc.AppConfig()

	assert.Equal(t, "Mağaza", cfg.Title)
	assert.Equal(t, "Yeni sezon", cfg.Description)
	require.Len(t, cfg.Products, 1)
	p := cfg.Products[0]
	assert.Equal(t, "8690000000001", p.Barcode)
	assert.Equal(t, "Keten Gömlek", p.Name)
	assert.Equal(t, "₺899,90", p.Price)
	assert.Equal(t, "img/gomlek.jpg", p.PhotoURL)
	assert.Equal(t, "Yazlık keten gömlek", p.Description)
	assert.Equal(t, "Tanıtım", p.VideoLabel)
	assert.Equal(t, "https://www.youtube.com/embed/abc", p.VideoURL)
	assert.True(t, p.HasVideo())
}

func TestDocumentAppConfig_PreservesOrder(t *testing.T) {
	doc := &Document{Data: &DocumentData{Products: []DocumentProduct{
		{Barcode: "3", Name: "c"},
		{Barcode: "1", Name: "a"},
		{Barcode: "2", Name: "b"},
	}}}

	cfg := doc.AppConfig()

	require.Len(t, cfg.Products, 3)
	assert.Equal(t, "3", cfg.Products[0].Barcode)
	assert.Equal(t, "1", cfg.Products[1].Barcode)
	assert.Equal(t, "2", cfg.Products[2].Barcode)
}

func TestDocumentAppConfig_Empty(t *testing.T) {
	cfg := (&Document{}).AppConfig()
	assert.NotNil(t, cfg.Products)
	assert.Empty(t, cfg.Products)
}

func TestProductHasVideo(t *testing.T) {
	var nilProduct *Product
	assert.False(t, nilProduct.HasVideo())
	assert.False(t, (&Product{}).HasVideo())
	assert.True(t, (&Product{VideoURL: "https://example.com/v"}).HasVideo())
}
