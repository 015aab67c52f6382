package config

import (
	"crypto/tls"
	"fmt"
)

// ServerTLS builds the listener *tls.Config from TLS_CERT_FILE and
// TLS_KEY_FILE. Returns nil, nil if neither is set (plaintext mode).
// Browsers grant camera access only on secure origins.
func (c *Config) ServerTLS() (*tls.Config, error) {
	if c.TLSCertFile == "" && c.TLSKeyFile == "" {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("load server cert: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
