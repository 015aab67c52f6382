package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/edvin/storefront/internal/model"
)

// ErrLoad marks every failure to produce a catalog: transport errors,
// non-success responses, unreadable or malformed documents.
var ErrLoad = errors.New("catalog load failed")

var validate = validator.New()

// ObjectGetter fetches an object from a bucket. It is satisfied by the S3
// source and replaced in tests.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, string, error)
}

type Loader struct {
	logger     zerolog.Logger
	httpClient *http.Client
	objects    ObjectGetter
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithObjectStore enables s3://bucket/key sources.
func WithObjectStore(g ObjectGetter) LoaderOption {
	return func(l *Loader) { l.objects = g }
}

func NewLoader(logger zerolog.Logger, timeout time.Duration, opts ...LoaderOption) *Loader {
	l := &Loader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load performs a single fetch of the document at url and returns the
// indexed catalog. There is no retry; every failure wraps ErrLoad.
func (l *Loader) Load(ctx context.Context, url string) (*Catalog, error) {
	start := time.Now()

	body, contentType, err := l.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	doc, err := decode(body, isYAML(url, contentType))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, url, err)
	}

	cat, err := New(doc.AppConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, url, err)
	}

	l.logger.Info().
		Str("source", url).
		Int("products", cat.Len()).
		Dur("duration", time.Since(start)).
		Msg("catalog loaded")
	return cat, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, string, error) {
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return l.fetchHTTP(ctx, url)
	case strings.HasPrefix(url, "s3://"):
		return l.fetchObject(ctx, url)
	default:
		path := strings.TrimPrefix(url, "file://")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", path, err)
		}
		return data, "", nil
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", url, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (l *Loader) fetchObject(ctx context.Context, url string) ([]byte, string, error) {
	if l.objects == nil {
		return nil, "", fmt.Errorf("fetch %s: object storage not configured", url)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(url, "s3://"), "/")
	if !ok || bucket == "" || key == "" {
		return nil, "", fmt.Errorf("fetch %s: expected s3://bucket/key", url)
	}

	rc, contentType, err := l.objects.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", url, err)
	}
	return data, contentType, nil
}

func isYAML(url, contentType string) bool {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			switch mt {
			case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
				return true
			}
		}
	}
	lower := strings.ToLower(url)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

func decode(body []byte, asYAML bool) (*model.Document, error) {
	var doc model.Document
	if asYAML {
		if err := yaml.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(body))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return nil, errors.New("invalid JSON: trailing data after document")
		}
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return &doc, nil
}
