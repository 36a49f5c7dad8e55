// Package live delivers a simulation over a websocket: the client sends
// trainee turns, the server pushes the caller's replies and any alerts raised
// along the way.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/guardline/vishsim/internal/handler/turn"
)

// Handler upgrades connections and runs the per-session message loop.
type Handler struct {
	processor *turn.Processor
	upgrader  websocket.Upgrader
}

// New creates the live call handler.
func New(processor *turn.Processor) *Handler {
	return &Handler{
		processor: processor,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type outboundMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[live] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf("[live] connection opened for session=%s", sessionID)

	// One read loop per connection: the connection is the serialization
	// point for this session's turns.
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[live] session=%s read error: %v", sessionID, err)
			}
			return
		}

		if inbound.Type != "turn" || inbound.Message == "" {
			h.send(conn, sessionID, outboundMessage{Type: "error", Error: "expected a turn message with non-empty text"})
			continue
		}

		outcome, err := h.processor.Process(r.Context(), sessionID, inbound.Message)
		if err != nil {
			h.send(conn, sessionID, outboundMessage{Type: "error", Error: err.Error()})
			continue
		}

		result := outcome.Result
		h.send(conn, sessionID, outboundMessage{Type: "adversary", Data: map[string]any{
			"content":         result.AdversaryMessage,
			"tactic":          string(result.Tactic),
			"escalationLevel": result.EscalationLevel,
			"riskLevel":       string(result.RiskLevel),
		}})

		for _, alert := range outcome.NewAlerts {
			h.send(conn, sessionID, outboundMessage{Type: "alert", Data: alert})
		}

		if result.Ended {
			h.send(conn, sessionID, outboundMessage{Type: "ended"})
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, sessionID string, msg outboundMessage) {
	msg.SessionID = sessionID
	msg.Timestamp = time.Now().Unix()

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[live] session=%s marshal failed: %v", sessionID, err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("[live] session=%s write failed: %v", sessionID, err)
	}
}
