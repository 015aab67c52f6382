package request

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestParseCloseOverlay(t *testing.T) {
	tests := []struct {
		name    string
		via     string
		wantErr bool
	}{
		{"button", "button", false},
		{"background", "background", false},
		{"empty", "", false},
		{"unknown", "swipe", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseCloseOverlay(formRequest(url.Values{"via": {tt.via}}))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "validation error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.via, v.Via)
		})
	}
}

func TestParseKeyPress(t *testing.T) {
	v, err := ParseKeyPress(formRequest(url.Values{"key": {"Escape"}}))
	require.NoError(t, err)
	assert.Equal(t, "Escape", v.Key)

	_, err = ParseKeyPress(formRequest(url.Values{}))
	assert.Error(t, err)

	_, err = ParseKeyPress(formRequest(url.Values{"key": {strings.Repeat("k", 33)}}))
	assert.Error(t, err)
}

func TestCardIndex(t *testing.T) {
	i, err := CardIndex("3")
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	for _, s := range []string{"", "-1", "abc", "1.5"} {
		_, err := CardIndex(s)
		assert.Error(t, err, s)
	}
}

func TestRequireBarcode(t *testing.T) {
	code, err := RequireBarcode("8690000000002")
	require.NoError(t, err)
	assert.Equal(t, "8690000000002", code)

	_, err = RequireBarcode("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required barcode")

	_, err = RequireBarcode("<script>")
	assert.Error(t, err)
}
