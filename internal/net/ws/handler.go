package ws

import (
	"context"
	"encoding/json"
	"log"
	nethttp "net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ironsight/server"
)

type HandlerConfig struct {
	Logger *log.Logger
}

// Handler upgrades HTTP requests to websocket sessions and pumps their
// inbound events into the gateway.
type Handler struct {
	gateway  *server.Gateway
	hub      *Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewHandler(gateway *server.Gateway, hub *Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		gateway:  gateway,
		hub:      hub,
		logger:   logger,
		upgrader: upgrader,
	}
}

// Handle runs one websocket session: register, read loop, teardown. Each
// session gets a server-assigned id; clients never name their own session.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}

	s := &session{id: uuid.NewString(), conn: conn}
	h.hub.register(s)

	// Dispatch runs on a background context: a settlement triggered by the
	// final message must not be cancelled by the socket closing under it.
	ctx := context.Background()
	h.gateway.HandleConnect(ctx, s.id)

	defer func() {
		h.hub.unregister(s.id)
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.gateway.HandleDisconnect(ctx, s.id, closeReason(err))
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", s.id, err)
			continue
		}
		h.dispatch(ctx, s.id, msg)
	}
}

func (h *Handler) dispatch(ctx context.Context, sessionID string, msg clientMessage) {
	switch msg.Type {
	case server.EventJoin:
		var payload server.JoinPayload
		if h.decode(sessionID, msg, &payload) {
			h.gateway.HandleJoin(ctx, sessionID, payload)
		}
	case server.EventUpdate:
		var payload server.UpdatePayload
		if h.decode(sessionID, msg, &payload) {
			h.gateway.HandleUpdate(ctx, sessionID, payload)
		}
	case server.EventShot:
		var payload server.ShotPayload
		if h.decode(sessionID, msg, &payload) {
			h.gateway.HandleShot(ctx, sessionID, payload)
		}
	case server.EventHit:
		var payload server.HitPayload
		if h.decode(sessionID, msg, &payload) {
			h.gateway.HandleHit(ctx, sessionID, payload)
		}
	case server.EventMelee:
		var payload server.MeleePayload
		if h.decode(sessionID, msg, &payload) {
			h.gateway.HandleMelee(ctx, sessionID, payload)
		}
	case server.EventEnd:
		var payload server.EndPayload
		if h.decode(sessionID, msg, &payload) {
			h.gateway.HandleEnd(ctx, sessionID, payload)
		}
	default:
		h.logger.Printf("discarding unknown event %q from %s", msg.Type, sessionID)
	}
}

func (h *Handler) decode(sessionID string, msg clientMessage, into any) bool {
	if len(msg.Data) == 0 {
		h.logger.Printf("discarding %s without body from %s", msg.Type, sessionID)
		return false
	}
	if err := json.Unmarshal(msg.Data, into); err != nil {
		h.logger.Printf("discarding malformed %s from %s: %v", msg.Type, sessionID, err)
		return false
	}
	return true
}

func closeReason(err error) string {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return "client closed"
	}
	return "read error"
}
