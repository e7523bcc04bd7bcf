package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is one frame pushed to a conversation's subscribed clients: a
// step's streamed message chunk or a TTS chunk (spec.md §4.5's OutboundFunc
// callbacks land here).
type WSMessage struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	StepID         string `json:"step_id,omitempty"`
	Chunk          string `json:"chunk,omitempty"`
}

type client struct {
	conn           *websocket.Conn
	conversationID uuid.UUID
}

// Hub fans out per-conversation message chunks to every WebSocket client
// subscribed to that conversation, the way the teacher's WSHub fanned out
// session events to every connected client — narrowed here to a single
// conversation per connection since a client only ever watches one
// conversation at a time.
type Hub struct {
	log        *slog.Logger
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan WSMessage
	mu         sync.RWMutex
}

// NewHub builds a Hub. Run must be called once, in its own goroutine,
// before any client registers.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:        log,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan WSMessage, 256),
	}
}

// Run drives the hub's event loop until stop is closed.
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.conn.Close()
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			conversationID, err := uuid.Parse(msg.ConversationID)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for c := range h.clients {
				if c.conversationID != conversationID {
					continue
				}
				if err := c.conn.WriteJSON(msg); err != nil {
					h.log.Warn("websocket write failed", "error", err)
					go func(c *client) { h.unregister <- c }(c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Send implements api.OutboundFunc-shaped callbacks: it is adapted into
// orchestrator.OutboundFunc per conversation by sendMessageHandler, tagging
// each chunk with its conversationID and msgType ("client" or "tts").
func (h *Hub) Send(conversationID uuid.UUID, msgType, stepID, chunk string) {
	h.broadcast <- WSMessage{
		Type:           msgType,
		ConversationID: conversationID.String(),
		StepID:         stepID,
		Chunk:          chunk,
	}
}

// HandleWS upgrades the request to a WebSocket and subscribes it to
// conversationID's broadcast stream until the connection closes.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, conversationID uuid.UUID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, conversationID: conversationID}
	h.register <- c

	defer func() { h.unregister <- c }()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket error", "error", err)
			}
			return
		}
	}
}
