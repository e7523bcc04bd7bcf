package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// wsHandler upgrades GET /api/v1/conversations/:id/stream to a WebSocket
// subscribed to that conversation's message stream.
func (s *Server) wsHandler(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}
	s.hub.HandleWS(c.Writer, c.Request, conversationID)
}
