package api

// OpenConversationRequest is the HTTP request body for
// POST /api/v1/conversations. ModuleID is not part of the body: a Server
// is wired to exactly one compiled Agent Spec (spec.md §3), so the module
// is implicit in which process/port a client talks to.
type OpenConversationRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

// SendMessageRequest is the HTTP request body for
// POST /api/v1/conversations/:id/messages.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
