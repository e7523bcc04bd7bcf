package api

import "time"

// ConversationResponse is returned by POST /api/v1/conversations.
type ConversationResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ModuleID  string `json:"module_id"`
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// SendMessageResponse is returned by POST /api/v1/conversations/:id/messages
// once the message has been recorded and the orchestrator run submitted —
// the run itself streams over the WebSocket hub, not this response body.
type SendMessageResponse struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	Status         string `json:"status"`
}

// CancelResponse is returned by POST /api/v1/conversations/:id/cancel.
type CancelResponse struct {
	ConversationID string `json:"conversation_id"`
	Status         string `json:"status"`
}

// HistoryMessageResponse is one entry of GET /api/v1/conversations/:id/messages.
type HistoryMessageResponse struct {
	ID        string    `json:"id"`
	Order     int       `json:"order"`
	Step      string    `json:"step"`
	Direction string    `json:"direction"`
	Status    string    `json:"status"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Checks  map[string]HealthCheck `json:"checks"`
}

// HealthCheck represents the status of a single health check component.
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
