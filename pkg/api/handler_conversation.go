package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codeready-toolchain/hikari/ent"
	"github.com/codeready-toolchain/hikari/pkg/orchestrator"
)

// openConversationHandler handles POST /api/v1/conversations: opens a new
// conversation at (user, module, session), closing whatever conversation
// was previously open at that key (spec.md §3).
func (s *Server) openConversationHandler(c *gin.Context) {
	var req OpenConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	row, err := s.convSvc.Open(c.Request.Context(), userID, s.moduleID, req.SessionID)
	if err != nil {
		status, msg := mapRuntimeError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, &ConversationResponse{
		ID:        row.ID.String(),
		UserID:    row.UserID.String(),
		ModuleID:  row.ModuleID,
		SessionID: row.SessionID,
		Status:    string(row.Status),
	})
}

// sendMessageHandler handles POST /api/v1/conversations/:id/messages:
// records the inbound message, then submits the program to run in the
// background and returns 202 Accepted — the response body is streamed
// separately over the WebSocket hub, mirroring the teacher's
// submit-then-202 chat pattern.
func (s *Server) sendMessageHandler(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := s.convSvc.Store().LoadState(c.Request.Context(), conversationID)
	if err != nil {
		status, msg := mapRuntimeError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	messageID, err := s.convSvc.AppendUserMessage(c.Request.Context(), conversationID, state.CurrentStep, req.Content)
	if err != nil {
		status, msg := mapRuntimeError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	row, userID, err := s.loadUserID(c, conversationID)
	if err != nil {
		status, msg := mapRuntimeError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	onClient := func(stepID string, chunk string) { s.hub.Send(conversationID, "client", stepID, chunk) }
	onTTS := func(stepID string, chunk string) { s.hub.Send(conversationID, "tts", stepID, chunk) }

	// Detached from the request context: the run must outlive this HTTP
	// response (it streams over the Hub, not the response body), so it
	// cannot inherit gin's request-scoped cancellation.
	runCtx := context.WithoutCancel(c.Request.Context())
	go func() {
		if _, err := s.runtime.Run(runCtx, conversationID, userID, row.ModuleID, row.SessionID, onClient, onTTS); err != nil {
			s.log.Error("conversation run failed", "conversation_id", conversationID, "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, &SendMessageResponse{
		ConversationID: conversationID.String(),
		MessageID:      messageID.String(),
		Status:         "running",
	})
}

// listMessagesHandler handles GET /api/v1/conversations/:id/messages: the
// full transcript, oldest first.
func (s *Server) listMessagesHandler(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	rows, err := s.convSvc.Store().ListMessages(c.Request.Context(), conversationID)
	if err != nil {
		status, msg := mapRuntimeError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	out := make([]HistoryMessageResponse, 0, len(rows))
	for _, row := range rows {
		direction := "send"
		if row.Direction == orchestrator.DirectionReceive {
			direction = "receive"
		}
		out = append(out, HistoryMessageResponse{
			ID:        row.ID.String(),
			Order:     row.Order,
			Step:      row.Step,
			Direction: direction,
			Status:    row.Status,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// cancelConversationHandler handles POST /api/v1/conversations/:id/cancel.
func (s *Server) cancelConversationHandler(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	if err := s.convSvc.Close(c.Request.Context(), conversationID); err != nil {
		status, msg := mapRuntimeError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, &CancelResponse{ConversationID: conversationID.String(), Status: "closed"})
}

// loadUserID fetches the conversation row to recover the (moduleID,
// sessionID, userID) triple Runtime.Run needs — the send-message request
// only names the conversation, not its owning key.
func (s *Server) loadUserID(c *gin.Context, conversationID uuid.UUID) (*ent.Conversation, uuid.UUID, error) {
	row, err := s.convSvc.GetByID(c.Request.Context(), conversationID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return row, row.UserID, nil
}
