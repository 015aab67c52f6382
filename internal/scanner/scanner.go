// Package scanner runs camera barcode scan sessions. A session acquires a
// camera stream, decodes frames until the first code is read and then
// releases the camera and reports the matching product, if any.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/edvin/storefront/internal/model"
)

// ErrCamera wraps every failure to acquire the camera: permission denied,
// missing device, or a cancelled prompt.
var ErrCamera = errors.New("camera unavailable")

// ErrStopped is returned by Start when the session was stopped or
// restarted before the camera was acquired. Cameras return it from Acquire
// when the shopper cancels the prompt from the page.
var ErrStopped = errors.New("scan stopped")

// State of a Scanner.
type State int

const (
	StateIdle State = iota
	StateAcquiring
	StateScanning
)

func (s State) String() string {
	switch s {
	case StateAcquiring:
		return "acquiring"
	case StateScanning:
		return "scanning"
	default:
		return "idle"
	}
}

// EventKind classifies scan session events.
type EventKind int

const (
	// EventMatched is terminal: a code was read and a product has it.
	EventMatched EventKind = iota
	// EventNoMatch is terminal: a code was read but no product has it.
	EventNoMatch
	// EventStopped is terminal: Stop, context cancellation or stream end.
	EventStopped
	// EventError is terminal: the camera failed after acquisition.
	EventError
	// EventFault is not terminal: an unexpected decoder failure.
	EventFault
)

func (k EventKind) String() string {
	switch k {
	case EventMatched:
		return "matched"
	case EventNoMatch:
		return "no-match"
	case EventStopped:
		return "stopped"
	case EventError:
		return "error"
	case EventFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Event is one item of a scan subscription.
type Event struct {
	Kind    EventKind
	Code    string
	Product *model.Product
	Err     error
}

// Terminal reports whether the subscription ends after this event.
func (e Event) Terminal() bool { return e.Kind != EventFault }

// Matcher resolves a decoded barcode to a product.
type Matcher interface {
	Match(barcode string) (*model.Product, bool)
}

// Observer receives session outcomes for metrics.
type Observer interface {
	ScanStarted()
	ScanFinished(outcome string)
	DecodeFault()
}

type nopObserver struct{}

func (nopObserver) ScanStarted()        {}
func (nopObserver) ScanFinished(string) {}
func (nopObserver) DecodeFault()        {}

const eventBuffer = 8

// Scanner owns the camera stream for at most one scan session at a time.
type Scanner struct {
	decoder  Decoder
	matcher  Matcher
	observer Observer
	logger   zerolog.Logger

	mu    sync.Mutex
	state State
	cur   *session
}

type session struct {
	cancel  context.CancelFunc
	stream  Stream
	release sync.Once
	done    chan struct{}
}

// releaseStream stops every track of the session's stream once.
func (ss *session) releaseStream() {
	if ss.stream == nil {
		return
	}
	ss.release.Do(func() {
		for _, t := range ss.stream.Tracks() {
			t.Stop()
		}
	})
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithObserver reports session outcomes to o.
func WithObserver(o Observer) Option {
	return func(s *Scanner) { s.observer = o }
}

func New(logger zerolog.Logger, decoder Decoder, matcher Matcher, opts ...Option) *Scanner {
	s := &Scanner{
		decoder:  decoder,
		matcher:  matcher,
		observer: nopObserver{},
		logger:   logger.With().Str("component", "scanner").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current scanner state.
func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start acquires the camera and begins decoding. The returned channel
// delivers events and is closed after the terminal one. Starting while a
// session is active stops that session first.
func (s *Scanner) Start(ctx context.Context, camera Camera) (<-chan Event, error) {
	s.Stop()

	ctx, cancel := context.WithCancel(ctx)
	ss := &session{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	s.state = StateAcquiring
	s.cur = ss
	s.mu.Unlock()

	stream, err := camera.Acquire(ctx, RearCamera)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != ss {
		// Stopped or restarted while the prompt was open.
		cancel()
		close(ss.done)
		if stream != nil {
			ss.stream = stream
			ss.releaseStream()
		}
		return nil, fmt.Errorf("%w during camera acquisition", ErrStopped)
	}
	if err != nil {
		cancel()
		close(ss.done)
		s.state = StateIdle
		s.cur = nil
		if errors.Is(err, ErrStopped) || ctx.Err() != nil {
			s.logger.Debug().Err(err).Msg("camera acquisition abandoned")
			if !errors.Is(err, ErrStopped) {
				err = fmt.Errorf("%w: %w", ErrStopped, err)
			}
			return nil, err
		}
		s.logger.Warn().Err(err).Msg("camera acquisition failed")
		s.observer.ScanFinished("camera-error")
		return nil, fmt.Errorf("%w: %w", ErrCamera, err)
	}

	ss.stream = stream
	s.state = StateScanning
	s.observer.ScanStarted()

	events := make(chan Event, eventBuffer)
	go s.run(ctx, ss, events)
	return events, nil
}

// Stop ends the active session, if any, releasing all camera tracks before
// it returns. It is safe to call at any time.
func (s *Scanner) Stop() {
	s.mu.Lock()
	ss := s.cur
	if ss == nil {
		s.mu.Unlock()
		return
	}
	s.cur = nil
	s.state = StateIdle
	ss.releaseStream()
	ss.cancel()
	s.mu.Unlock()

	<-ss.done
}

func (s *Scanner) run(ctx context.Context, ss *session, events chan<- Event) {
	defer close(ss.done)
	defer close(events)

	finish := func(ev Event) {
		s.mu.Lock()
		ss.releaseStream()
		if s.cur == ss {
			s.cur = nil
			s.state = StateIdle
		}
		s.mu.Unlock()
		ss.cancel()
		s.observer.ScanFinished(ev.Kind.String())
		events <- ev
	}

	frames := ss.stream.Frames()
	for {
		select {
		case <-ctx.Done():
			finish(Event{Kind: EventStopped})
			return
		case frame, ok := <-frames:
			if !ok {
				if err := streamErr(ss.stream); err != nil && ctx.Err() == nil {
					s.logger.Warn().Err(err).Msg("camera stream failed")
					finish(Event{Kind: EventError, Err: err})
				} else {
					finish(Event{Kind: EventStopped})
				}
				return
			}

			code, err := s.decoder.Decode(frame)
			if errors.Is(err, ErrNoCode) {
				continue
			}
			if err != nil {
				s.logger.Warn().Err(err).Msg("unexpected decode fault")
				s.observer.DecodeFault()
				// Keep a slot free for the terminal event.
				if len(events) < cap(events)-1 {
					events <- Event{Kind: EventFault, Err: err}
				}
				continue
			}

			if p, ok := s.matcher.Match(code); ok {
				s.logger.Info().Str("barcode", code).Msg("scan matched")
				finish(Event{Kind: EventMatched, Code: code, Product: p})
			} else {
				s.logger.Info().Str("barcode", code).Msg("scan matched no product")
				finish(Event{Kind: EventNoMatch, Code: code})
			}
			return
		}
	}
}

// streamErr returns the failure that ended a stream, for streams that
// report one.
func streamErr(st Stream) error {
	if e, ok := st.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}
