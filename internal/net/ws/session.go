package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// clientMessage is the inbound wire envelope: an event name plus an
// event-specific body decoded by the dispatcher.
type clientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// serverMessage is the outbound wire envelope.
type serverMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// session is one live websocket connection. Writes are serialized by the
// session mutex; gorilla connections do not tolerate concurrent writers.
type session struct {
	id   string
	conn *websocket.Conn

	mu sync.Mutex
}

func (s *session) write(event string, payload any) error {
	data, err := json.Marshal(serverMessage{Type: event, Data: payload})
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks live sessions and delivers outbound events to them. It is the
// gateway's transport; a send to a session that already went away is a
// silent no-op because the disconnect path races inbound broadcasts by
// design.
type Hub struct {
	logger *log.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.id] = s
}

func (h *Hub) unregister(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, sessionID)
}

// Send delivers one event to one session. Write failures are logged and
// otherwise ignored; the read loop owns connection teardown.
func (h *Hub) Send(sessionID, event string, payload any) {
	h.mu.RLock()
	s, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := s.write(event, payload); err != nil {
		h.logger.Printf("write to session %s failed: %v", sessionID, err)
	}
}

// SessionCount reports the number of live connections for diagnostics.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
