// Package slot implements the four-scope key/value Slot Store (spec.md §4.1).
// Slots back template interpolation, guard conditions, and tool I/O for the
// LLM Agent Runtime. Values are always passed and returned as the canonical
// text encoding (spec.md §6); decoding to a tagged value is the Template
// package's responsibility.
package slot

import "github.com/google/uuid"

// Scope identifies one of the four slot lifetimes (spec.md §3).
type Scope int

const (
	// ScopeConversation keys on a single conversation_id.
	ScopeConversation Scope = iota
	// ScopeSession keys on (user_id, module_id, session_id).
	ScopeSession
	// ScopeModule keys on (user_id, module_id).
	ScopeModule
	// ScopeGlobal keys on user_id alone and persists indefinitely.
	ScopeGlobal
)

// String implements fmt.Stringer for logging.
func (s Scope) String() string {
	switch s {
	case ScopeConversation:
		return "conversation"
	case ScopeSession:
		return "session"
	case ScopeModule:
		return "module"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// ParseScope parses a destination name ("conversation", "session",
// "module", "global") as used in Agent Spec YAML. An empty or
// unrecognized string defaults to ScopeConversation, matching the
// original Destination enum's #[default] variant.
func ParseScope(name string) Scope {
	switch name {
	case "session":
		return ScopeSession
	case "module":
		return ScopeModule
	case "global":
		return ScopeGlobal
	default:
		return ScopeConversation
	}
}

// Key addresses a scope's composite key. Only the fields relevant to the
// target Scope are read; callers typically build one Key per conversation
// and reuse it across steps.
type Key struct {
	Scope          Scope
	ConversationID uuid.UUID
	UserID         uuid.UUID
	ModuleID       string
	SessionID      string
}

// ConversationKey builds a Key addressing conversation scope.
func ConversationKey(conversationID uuid.UUID) Key {
	return Key{Scope: ScopeConversation, ConversationID: conversationID}
}

// SessionKey builds a Key addressing session scope.
func SessionKey(userID uuid.UUID, moduleID, sessionID string) Key {
	return Key{Scope: ScopeSession, UserID: userID, ModuleID: moduleID, SessionID: sessionID}
}

// ModuleKey builds a Key addressing module scope.
func ModuleKey(userID uuid.UUID, moduleID string) Key {
	return Key{Scope: ScopeModule, UserID: userID, ModuleID: moduleID}
}

// GlobalKey builds a Key addressing global scope.
func GlobalKey(userID uuid.UUID) Key {
	return Key{Scope: ScopeGlobal, UserID: userID}
}

// Slot is one resolved (scope-key, name) -> value row.
type Slot struct {
	Name  string
	Value string // canonical text encoding, see spec.md §6
}
