package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/storefront/internal/api"
	"github.com/edvin/storefront/internal/catalog"
	"github.com/edvin/storefront/internal/config"
	"github.com/edvin/storefront/internal/i18n"
	"github.com/edvin/storefront/internal/logging"
	"github.com/edvin/storefront/internal/metrics"
	"github.com/edvin/storefront/internal/scanner"
	"github.com/edvin/storefront/internal/storefront"
	"github.com/edvin/storefront/internal/web"
)

const sweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	tlsConfig, err := cfg.ServerTLS()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load TLS config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var loaderOpts []catalog.LoaderOption
	if strings.HasPrefix(cfg.CatalogURL, "s3://") {
		loaderOpts = append(loaderOpts, catalog.WithObjectStore(
			catalog.NewS3Source(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey),
		))
	}
	loader := catalog.NewLoader(logger, cfg.CatalogTimeout, loaderOpts...)

	store := catalog.NewStore(loader, cfg.CatalogURL)
	store.OnLoad(func(c *catalog.Catalog, err error) {
		n := 0
		if c != nil {
			n = c.Len()
		}
		metrics.CatalogLoaded(n, err)
	})
	// A failed load is not fatal: pages show the load error until a reload.
	if err := store.Reload(ctx); err != nil {
		logger.Error().Err(err).Str("catalog_url", cfg.CatalogURL).Msg("initial catalog load failed")
	}

	templates, err := web.ParseTemplates()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	sessions := storefront.NewSessions(logger, storefront.SessionsConfig{
		Source:      store,
		Bundle:      i18n.NewBundle(cfg.DefaultLanguage),
		NewDecoder:  func() scanner.Decoder { return scanner.NewZXingDecoder() },
		Observer:    metrics.Scans{},
		IdleTimeout: cfg.SessionIdleTimeout,
	})
	metrics.RegisterSessionGauge(prometheus.DefaultRegisterer, sessions.Len)

	srv := api.NewServer(logger, cfg, store, sessions, templates)

	// No WriteTimeout: scan sockets stay open for the whole session.
	httpServer := &http.Server{
		Addr:              cfg.HTTPListenAddr,
		Handler:           srv,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
		TLSConfig:         tlsConfig,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Bool("tls", tlsConfig != nil).Msg("starting storefront server")
		var err error
		if tlsConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server")
		// Hijacked scan sockets are not tracked by Shutdown.
		sessions.StopAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return sessions.Run(gctx, sweepInterval)
	})

	g.Go(func() error {
		return reloadOnHangup(gctx, logger, store)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

// reloadOnHangup reloads the catalog on SIGHUP until ctx is done.
func reloadOnHangup(ctx context.Context, logger zerolog.Logger, store *catalog.Store) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			if err := store.Reload(ctx); err != nil {
				logger.Error().Err(err).Msg("catalog reload failed")
				continue
			}
			logger.Info().Msg("catalog reloaded")
		}
	}
}
