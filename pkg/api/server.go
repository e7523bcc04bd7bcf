// Package api implements the HTTP/WebSocket surface over which clients
// drive and observe agent conversations: opening a conversation, sending a
// message, reading history, cancelling, and streaming step output.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/hikari/pkg/conversation"
	"github.com/codeready-toolchain/hikari/pkg/database"
	"github.com/codeready-toolchain/hikari/pkg/orchestrator"
)

// Server is the HTTP API server: a thin Gin layer over the conversation
// service, the orchestrator runtime and the WebSocket fan-out hub.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server

	dbClient *database.Client
	convSvc  *conversation.Service
	runtime  *orchestrator.Runtime
	hub      *Hub

	moduleID string
	version  string
	log      *slog.Logger
}

// NewServer builds a Server wired to one compiled agent module (identified
// by moduleID, the Agent Spec's own id — spec.md §3). hub's Run loop must
// already be started by the caller in its own goroutine.
func NewServer(
	dbClient *database.Client,
	convSvc *conversation.Service,
	runtime *orchestrator.Runtime,
	hub *Hub,
	moduleID string,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(securityHeaders())

	s := &Server{
		router:   router,
		dbClient: dbClient,
		convSvc:  convSvc,
		runtime:  runtime,
		hub:      hub,
		moduleID: moduleID,
		version:  "dev",
		log:      log,
	}
	s.setupRoutes()
	return s
}

// SetVersion overrides the version string reported by the health endpoint.
func (s *Server) SetVersion(v string) { s.version = v }

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler)

	v1 := s.router.Group("/api/v1")
	v1.POST("/conversations", s.openConversationHandler)
	v1.GET("/conversations/:id/messages", s.listMessagesHandler)
	v1.POST("/conversations/:id/messages", s.sendMessageHandler)
	v1.POST("/conversations/:id/cancel", s.cancelConversationHandler)
	v1.GET("/conversations/:id/stream", s.wsHandler)
}

// Start starts the HTTP server on addr (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener. Used
// by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.router}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
