package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName    string
	HTTPListenAddr string
	LogLevel       string
	DevMode        bool

	TLSCertFile string
	TLSKeyFile  string

	// CatalogURL locates the catalog document: an http(s) URL, an
	// s3://bucket/key object or a local file path.
	CatalogURL     string
	CatalogTimeout time.Duration

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	SessionIdleTimeout time.Duration
	DefaultLanguage    string
	ScanMaxFrameBytes  int64
}

func Load() (*Config, error) {
	catalogTimeout, err := getDuration("CATALOG_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	idle, err := getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	maxFrame, err := strconv.ParseInt(getEnv("SCAN_MAX_FRAME_BYTES", "2097152"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse SCAN_MAX_FRAME_BYTES: %w", err)
	}

	cfg := &Config{
		ServiceName:        getEnv("SERVICE_NAME", "storefront"),
		HTTPListenAddr:     getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DevMode:            getEnv("DEV_MODE", "") == "true",
		TLSCertFile:        getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:         getEnv("TLS_KEY_FILE", ""),
		CatalogURL:         getEnv("CATALOG_URL", "data.json"),
		CatalogTimeout:     catalogTimeout,
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:        getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:        getEnv("S3_SECRET_KEY", ""),
		SessionIdleTimeout: idle,
		DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "tr"),
		ScanMaxFrameBytes:  maxFrame,
	}

	return cfg, nil
}

// Validate reports missing or inconsistent settings.
func (c *Config) Validate() error {
	var missing []string
	if c.HTTPListenAddr == "" {
		missing = append(missing, "HTTP_LISTEN_ADDR")
	}
	if c.CatalogURL == "" {
		missing = append(missing, "CATALOG_URL")
	}
	if strings.HasPrefix(c.CatalogURL, "s3://") {
		if c.S3AccessKey == "" {
			missing = append(missing, "S3_ACCESS_KEY")
		}
		if c.S3SecretKey == "" {
			missing = append(missing, "S3_SECRET_KEY")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive")
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}
	if c.ScanMaxFrameBytes <= 0 {
		return fmt.Errorf("SCAN_MAX_FRAME_BYTES must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
