package api

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/finbotics/loanflow/internal/domain"
	"github.com/finbotics/loanflow/internal/orchestrator"
)

func TestChatSocketRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws"
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	defer ws.Close(websocket.StatusNormalClosure, "done")

	if err := wsjson.Write(ctx, ws, map[string]string{"message": "hello"}); err != nil {
		t.Fatalf("Failed to write first turn: %v", err)
	}
	var first orchestrator.Outbound
	if err := wsjson.Read(ctx, ws, &first); err != nil {
		t.Fatalf("Failed to read first reply: %v", err)
	}
	if first.SessionID == "" {
		t.Error("Expected a session ID on the first reply, got empty")
	}
	if first.Stage != domain.StageIntentCapture {
		t.Errorf("Expected stage %s, got %s", domain.StageIntentCapture, first.Stage)
	}

	if err := wsjson.Write(ctx, ws, map[string]string{"session_id": first.SessionID, "message": "9876543210"}); err != nil {
		t.Fatalf("Failed to write second turn: %v", err)
	}
	var second orchestrator.Outbound
	if err := wsjson.Read(ctx, ws, &second); err != nil {
		t.Fatalf("Failed to read second reply: %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Errorf("Expected session %s to carry across turns, got %s", first.SessionID, second.SessionID)
	}
	if second.Stage != domain.StageOfferPresentation {
		t.Errorf("Expected stage %s, got %s", domain.StageOfferPresentation, second.Stage)
	}
	if !strings.Contains(second.Message, "Rajesh Kumar") {
		t.Errorf("Expected qualification reply to greet the customer, got %q", second.Message)
	}
}
