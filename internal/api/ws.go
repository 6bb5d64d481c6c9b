package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/finbotics/loanflow/internal/orchestrator"
)

// turnTimeout bounds one conversation turn over the socket.
const turnTimeout = 30 * time.Second

// ChatSocket serves the conversation over a WebSocket. Each inbound
// JSON message is one turn; the reply mirrors the HTTP chat payload.
type ChatSocket struct {
	orch           *orchestrator.Orchestrator
	originPatterns []string
	logger         *slog.Logger
}

// NewChatSocket creates the WebSocket chat handler.
func NewChatSocket(orch *orchestrator.Orchestrator, originPatterns []string, logger *slog.Logger) *ChatSocket {
	if logger == nil {
		logger = slog.Default()
	}
	if len(originPatterns) == 0 {
		originPatterns = []string{"*"}
	}
	return &ChatSocket{orch: orch, originPatterns: originPatterns, logger: logger}
}

type socketInbound struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ServeHTTP upgrades the connection and runs the turn loop until the
// client disconnects.
func (s *ChatSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		s.logger.Error("failed to accept websocket", "error", err)
		return
	}
	defer func() {
		_ = ws.Close(websocket.StatusNormalClosure, "conversation ended")
	}()

	ctx := r.Context()
	sessionID := ""
	for {
		var in socketInbound
		if err := wsjson.Read(ctx, ws, &in); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Debug("websocket read ended", "session_id", sessionID, "error", err)
			return
		}
		if in.SessionID != "" {
			sessionID = in.SessionID
		}

		turnCtx, cancel := context.WithTimeout(ctx, turnTimeout)
		out, err := s.orch.Handle(turnCtx, sessionID, in.Message)
		cancel()
		if err != nil {
			s.logger.Error("websocket turn failed", "session_id", sessionID, "error", err)
			if werr := wsjson.Write(ctx, ws, map[string]string{"error": "internal error"}); werr != nil {
				return
			}
			continue
		}
		sessionID = out.SessionID

		if err := wsjson.Write(ctx, ws, out); err != nil {
			s.logger.Debug("websocket write failed", "session_id", sessionID, "error", err)
			return
		}
	}
}
