package request

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var barcodeRegex = regexp.MustCompile(`^[0-9A-Za-z\-.$/+% ]{1,64}$`)

func init() {
	validate.RegisterValidation("barcode", func(fl validator.FieldLevel) bool {
		return barcodeRegex.MatchString(fl.Field().String())
	})
}

// CloseOverlay is the overlay close form. Via names the trigger.
type CloseOverlay struct {
	Via string `validate:"omitempty,oneof=button background"`
}

// KeyPress is a forwarded keyboard event.
type KeyPress struct {
	Key string `validate:"required,max=32"`
}

func ParseCloseOverlay(r *http.Request) (CloseOverlay, error) {
	if err := r.ParseForm(); err != nil {
		return CloseOverlay{}, fmt.Errorf("invalid form: %w", err)
	}
	v := CloseOverlay{Via: r.PostForm.Get("via")}
	if err := validate.Struct(v); err != nil {
		return CloseOverlay{}, fmt.Errorf("validation error: %w", err)
	}
	return v, nil
}

func ParseKeyPress(r *http.Request) (KeyPress, error) {
	if err := r.ParseForm(); err != nil {
		return KeyPress{}, fmt.Errorf("invalid form: %w", err)
	}
	v := KeyPress{Key: r.PostForm.Get("key")}
	if err := validate.Struct(v); err != nil {
		return KeyPress{}, fmt.Errorf("validation error: %w", err)
	}
	return v, nil
}

// CardIndex parses a grid position.
func CardIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid card index %q", s)
	}
	return i, nil
}

func RequireBarcode(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required barcode")
	}
	if err := validate.Var(s, "barcode"); err != nil {
		return "", fmt.Errorf("invalid barcode %q", s)
	}
	return s, nil
}
