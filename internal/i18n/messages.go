// Package i18n holds the user-facing storefront strings and picks a
// language from the request's Accept-Language header.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// Messages is the set of strings shown to shoppers in one language.
type Messages struct {
	Lang         string
	LoadError    string
	CameraError  string
	NoMatch      string // format, takes the decoded barcode
	BarcodeLabel string // format, takes the barcode
	Loading      string
	Scan         string
	CloseScanner string
	Close        string
	PlayVideo    string
	EmptyCatalog string
}

var catalogs = map[string]Messages{
	"tr": {
		Lang:         "tr",
		LoadError:    "Veri yüklenirken bir hata oluştu. Lütfen daha sonra tekrar deneyin.",
		CameraError:  "Kamera erişimi sağlanamadı. Lütfen kamera izinlerini kontrol edin.",
		NoMatch:      "Bu barkoda ait ürün bulunamadı: %s",
		BarcodeLabel: "Barkod: %s",
		Loading:      "Yükleniyor...",
		Scan:         "Barkod Tara",
		CloseScanner: "Taramayı Kapat",
		Close:        "Kapat",
		PlayVideo:    "Videoyu Oynat",
		EmptyCatalog: "Henüz ürün yok.",
	},
	"en": {
		Lang:         "en",
		LoadError:    "Something went wrong while loading data. Please try again later.",
		CameraError:  "Could not access the camera. Please check your camera permissions.",
		NoMatch:      "No product found for barcode: %s",
		BarcodeLabel: "Barcode: %s",
		Loading:      "Loading...",
		Scan:         "Scan Barcode",
		CloseScanner: "Close Scanner",
		Close:        "Close",
		PlayVideo:    "Play Video",
		EmptyCatalog: "No products yet.",
	},
}

var supported = []language.Tag{language.Turkish, language.English}

// Bundle negotiates languages against a default.
type Bundle struct {
	fallback string
	matcher  language.Matcher
}

// NewBundle returns a bundle whose fallback is def; unknown defaults fall
// back to Turkish.
func NewBundle(def string) *Bundle {
	if _, ok := catalogs[def]; !ok {
		def = "tr"
	}
	tags := []language.Tag{language.MustParse(def)}
	for _, t := range supported {
		if t.String() != def {
			tags = append(tags, t)
		}
	}
	return &Bundle{fallback: def, matcher: language.NewMatcher(tags)}
}

// Match picks the messages for an Accept-Language header value.
func (b *Bundle) Match(acceptLanguage string) Messages {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return catalogs[b.fallback]
	}
	tag, _, _ := b.matcher.Match(prefs...)
	base, _ := tag.Base()
	if m, ok := catalogs[base.String()]; ok {
		return m
	}
	return catalogs[b.fallback]
}

// Lookup returns the messages for a language code, or the Turkish set.
func Lookup(lang string) Messages {
	if m, ok := catalogs[lang]; ok {
		return m
	}
	return catalogs["tr"]
}

func (m Messages) Barcode(code string) string {
	return fmt.Sprintf(m.BarcodeLabel, code)
}

func (m Messages) NoMatchFor(code string) string {
	return fmt.Sprintf(m.NoMatch, code)
}
