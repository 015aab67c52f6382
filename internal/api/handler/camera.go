package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/edvin/storefront/internal/scanner"
)

// ScanSubprotocol is the optional WebSocket subprotocol of scan sessions.
const ScanSubprotocol = "storefront.scan.v1"

// StatusCameraFailed is the close code a browser sends when getUserMedia
// is refused or the camera fails.
const StatusCameraFailed websocket.StatusCode = 4001

var errCameraFailed = errors.New("browser camera failed")

// wsCamera is a scan camera backed by a browser streaming frames over a
// WebSocket. Acquire succeeds once the first frame arrives. The socket stays
// with the handler, which closes it after the scan outcome is applied; the
// browser releases its camera on that close.
type wsCamera struct {
	conn   *websocket.Conn
	logger zerolog.Logger
}

func newWSCamera(conn *websocket.Conn, logger zerolog.Logger) *wsCamera {
	return &wsCamera{conn: conn, logger: logger}
}

func (c *wsCamera) Acquire(ctx context.Context, cons scanner.Constraints) (scanner.Stream, error) {
	if err := wsjson.Write(ctx, c.conn, cons); err != nil {
		return nil, fmt.Errorf("send constraints: %w", err)
	}

	st := &wsStream{
		conn:   c.conn,
		frames: make(chan image.Image, 1),
		first:  make(chan struct{}),
		done:   make(chan struct{}),
		track:  &wsTrack{},
		logger: c.logger,
	}
	// Reads end with the socket, not with the scan.
	go st.read(context.WithoutCancel(ctx))

	select {
	case <-st.first:
		return st, nil
	case <-st.done:
		select {
		case <-st.first:
			return st, nil
		default:
		}
		if err := st.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scan socket closed", scanner.ErrStopped)
	case <-ctx.Done():
		st.track.Stop()
		return nil, ctx.Err()
	}
}

type wsStream struct {
	conn   *websocket.Conn
	frames chan image.Image
	first  chan struct{}
	track  *wsTrack
	logger zerolog.Logger

	done chan struct{}
	mu   sync.Mutex
	err  error
}

func (s *wsStream) Frames() <-chan image.Image { return s.frames }
func (s *wsStream) Tracks() []scanner.Track    { return []scanner.Track{s.track} }

// Err is the failure that ended the stream, if any.
func (s *wsStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// read pumps frames until the socket closes. Only the newest frame is
// kept when the decoder falls behind; frames after Stop are dropped.
func (s *wsStream) read(ctx context.Context) {
	defer close(s.done)
	defer close(s.frames)

	gotFirst := false
	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			if !s.track.isStopped() {
				s.mu.Lock()
				s.err = readErr(err, gotFirst)
				s.mu.Unlock()
			}
			return
		}
		if typ != websocket.MessageBinary || s.track.isStopped() {
			continue
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			s.logger.Debug().Err(err).Int("bytes", len(data)).Msg("skipping undecodable frame")
			continue
		}

		select {
		case s.frames <- img:
		default:
			select {
			case <-s.frames:
			default:
			}
			select {
			case s.frames <- img:
			default:
			}
		}
		if !gotFirst {
			gotFirst = true
			close(s.first)
		}
	}
}

// readErr maps the end of the socket to a stream error. Only
// StatusCameraFailed is a camera failure. Any other close before the first
// frame means the shopper cancelled or left. Once streaming, anything but a
// normal close or navigation away ends the stream with an error.
func readErr(err error, streaming bool) error {
	status := websocket.CloseStatus(err)
	switch {
	case status == StatusCameraFailed:
		var ce websocket.CloseError
		reason := "camera failed"
		if errors.As(err, &ce) && ce.Reason != "" {
			reason = ce.Reason
		}
		return fmt.Errorf("%w: %s", errCameraFailed, reason)
	case !streaming:
		return fmt.Errorf("%w: scan socket closed before first frame: %w", scanner.ErrStopped, err)
	case status == websocket.StatusNormalClosure, status == websocket.StatusGoingAway:
		return nil
	default:
		return fmt.Errorf("scan socket (status %d): %w", status, err)
	}
}

// wsTrack is the browser camera as seen by the server. Stopping it ends
// frame intake at once.
type wsTrack struct {
	stopped atomic.Bool
}

func (t *wsTrack) Stop()           { t.stopped.Store(true) }
func (t *wsTrack) isStopped() bool { return t.stopped.Load() }
