package catalog

import (
	"context"
	"sync"
)

// Store holds the process-wide catalog snapshot. Each Reload replaces the
// snapshot wholesale; catalogs handed out earlier stay valid.
type Store struct {
	loader *Loader
	url    string

	mu      sync.RWMutex
	current *Catalog
	err     error

	onLoad func(*Catalog, error)
}

func NewStore(loader *Loader, url string) *Store {
	return &Store{loader: loader, url: url, err: ErrNotLoaded}
}

// OnLoad registers a callback invoked after every Reload with the snapshot
// in effect afterwards and the reload error, if any.
func (s *Store) OnLoad(fn func(*Catalog, error)) {
	s.onLoad = fn
}

// Reload fetches the document again. On failure the previous snapshot stays
// current; Load reports the error only while no catalog has loaded yet.
func (s *Store) Reload(ctx context.Context) error {
	cat, err := s.loader.Load(ctx, s.url)

	s.mu.Lock()
	switch {
	case err == nil:
		s.current, s.err = cat, nil
	case s.current == nil:
		s.err = err
	}
	current := s.current
	s.mu.Unlock()

	if s.onLoad != nil {
		s.onLoad(current, err)
	}
	return err
}

// Load returns the current snapshot or the error of the last reload.
func (s *Store) Load(_ context.Context) (*Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.err
}

// Ready reports whether a catalog is available.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}
