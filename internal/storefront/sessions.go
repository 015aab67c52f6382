package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edvin/storefront/internal/i18n"
	"github.com/edvin/storefront/internal/scanner"
)

// Session is one browser's storefront.
type Session struct {
	ID   string
	App  *App
	Page *Page

	lastSeen time.Time
}

// Sessions keeps an App per browser, created on first contact and dropped
// after a period of inactivity.
type Sessions struct {
	logger     zerolog.Logger
	source     Source
	bundle     *i18n.Bundle
	newDecoder func() scanner.Decoder
	observer   scanner.Observer
	idle       time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

type SessionsConfig struct {
	Source      Source
	Bundle      *i18n.Bundle
	NewDecoder  func() scanner.Decoder
	Observer    scanner.Observer
	IdleTimeout time.Duration
}

func NewSessions(logger zerolog.Logger, cfg SessionsConfig) *Sessions {
	return &Sessions{
		logger:     logger.With().Str("component", "sessions").Logger(),
		source:     cfg.Source,
		bundle:     cfg.Bundle,
		newDecoder: cfg.NewDecoder,
		observer:   cfg.Observer,
		idle:       cfg.IdleTimeout,
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
}

// Get returns the session for id, creating and initializing a new one when
// id is empty or unknown. created reports whether a new ID was issued. An
// existing session whose catalog failed to load retries the load.
func (s *Sessions) Get(ctx context.Context, id, acceptLanguage string) (sess *Session, created bool) {
	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok && id != "" {
		sess.lastSeen = s.now()
		s.mu.Unlock()
		if !sess.App.State().Ready {
			_ = sess.App.Init(ctx, s.source)
		}
		return sess, false
	}
	s.mu.Unlock()

	sess = s.create(ctx, acceptLanguage)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, true
}

func (s *Sessions) create(ctx context.Context, acceptLanguage string) *Session {
	page := NewPage()
	var opts []AppOption
	if s.observer != nil {
		opts = append(opts, WithScanObserver(s.observer))
	}
	app := NewApp(s.logger, page, s.bundle.Match(acceptLanguage), s.newDecoder(), opts...)
	// A failed load is already on the page.
	_ = app.Init(ctx, s.source)

	id := uuid.NewString()
	s.logger.Debug().Str("session_id", id).Str("lang", app.Messages().Lang).Msg("session created")
	return &Session{ID: id, App: app, Page: page, lastSeen: s.now()}
}

// Lookup returns an existing session without creating one.
func (s *Sessions) Lookup(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the idle timeout and stops
// their scans. It returns the number of dropped sessions.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.App.StopScan()
	}
	if len(expired) > 0 {
		s.logger.Debug().Int("count", len(expired)).Msg("swept idle sessions")
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// StopAll stops every active scan, used on shutdown.
func (s *Sessions) StopAll() {
	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.Unlock()

	for _, sess := range all {
		sess.App.StopScan()
	}
}
