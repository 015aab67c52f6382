package handler

import (
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	mw "github.com/edvin/storefront/internal/api/middleware"
	"github.com/edvin/storefront/internal/api/response"
	"github.com/edvin/storefront/internal/scanner"
)

type Scan struct {
	maxFrameBytes int64
}

func NewScan(maxFrameBytes int64) *Scan {
	return &Scan{maxFrameBytes: maxFrameBytes}
}

// Connect runs one scan session over a WebSocket: the browser streams camera
// frames until a code is read or the session is stopped.
func (h *Scan) Connect(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r.Context())
	if sess == nil {
		response.WriteError(w, http.StatusInternalServerError, errNoSession.Error())
		return
	}
	if !sess.App.State().Ready {
		response.WriteError(w, http.StatusServiceUnavailable, "catalog not loaded")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols: []string{ScanSubprotocol},
	})
	if err != nil {
		return // Accept already wrote the HTTP error
	}
	defer conn.CloseNow()
	conn.SetReadLimit(h.maxFrameBytes)

	logger := zerolog.Ctx(r.Context()).With().Str("session_id", sess.ID).Logger()
	logger.Debug().Msg("scan session opened")

	err = sess.App.Scan(r.Context(), newWSCamera(conn, logger))
	switch {
	case errors.Is(err, scanner.ErrCamera):
		logger.Info().Err(err).Msg("scan ended without camera")
	case errors.Is(err, scanner.ErrStopped):
		logger.Debug().Msg("scan stopped before camera acquisition")
	case err != nil:
		logger.Warn().Err(err).Msg("scan failed")
		conn.Close(websocket.StatusInternalError, "scan failed")
		return
	}
	// The outcome is on the page by now; the browser reloads on close.
	conn.Close(websocket.StatusNormalClosure, "scan finished")
}
