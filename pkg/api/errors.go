package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/codeready-toolchain/hikari/ent"
	"github.com/codeready-toolchain/hikari/pkg/orchestrator"
	"github.com/codeready-toolchain/hikari/pkg/template"
)

// mapRuntimeError maps orchestrator/conversation-layer errors to an HTTP
// status and a client-safe message, the way the teacher's mapServiceError
// maps its own services-layer sentinel errors.
func mapRuntimeError(err error) (int, string) {
	var slotErr *template.SlotNotFoundError
	if errors.As(err, &slotErr) {
		return http.StatusBadRequest, slotErr.Error()
	}
	if errors.Is(err, orchestrator.ErrConversationNotOpen) {
		return http.StatusConflict, "conversation is not open"
	}
	if errors.Is(err, orchestrator.ErrConversationClosed) {
		return http.StatusConflict, "conversation was closed"
	}
	if errors.Is(err, orchestrator.ErrUnknownStep) {
		return http.StatusInternalServerError, "agent program references an unknown step"
	}
	if ent.IsNotFound(err) {
		return http.StatusNotFound, "conversation not found"
	}

	slog.Error("unexpected runtime error", "error", err)
	return http.StatusInternalServerError, "internal server error"
}
