// Package template implements Template & Injection (spec.md §4.2): parsing
// "{{slot}}" placeholders out of step configuration strings, resolving them
// against the Slot Store, and rendering values back into canonical text
// form. Grounded on original_source
// hikari-llm/src/builder/slot/paths.rs (SlotPath/Destination) and
// hikari-llm/src/builder/slot.rs (ValueSource/LoadToSlot), generalized from
// the Rust trait-based InjectionTrait/SlotsTrait into an explicit Go API.
package template

import (
	"fmt"
	"strings"

	"github.com/codeready-toolchain/hikari/pkg/slot"
)

// SlotPath addresses one slot by name within a scope. The legacy Global
// boolean takes precedence over Destination when set, matching the
// original's deprecated-field compatibility rule.
type SlotPath struct {
	Name        string
	Global      *bool
	Destination slot.Scope
}

// NewSlotPath builds a SlotPath with no legacy global override.
func NewSlotPath(name string, destination slot.Scope) SlotPath {
	return SlotPath{Name: name, Destination: destination}
}

// EffectiveDestination resolves the real destination, honoring the
// deprecated global flag over Destination when both are present.
func (p SlotPath) EffectiveDestination() slot.Scope {
	if p.Global != nil && *p.Global {
		return slot.ScopeGlobal
	}
	return p.Destination
}

// String renders "destination.name", the canonical placeholder form.
func (p SlotPath) String() string {
	return fmt.Sprintf("%s.%s", p.EffectiveDestination(), p.Name)
}

// ParseSlotPath parses a placeholder body such as "session.greeting" or a
// bare "greeting" (which defaults to conversation scope, mirroring the
// Destination enum's #[default] variant).
func ParseSlotPath(raw string) (SlotPath, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SlotPath{}, fmt.Errorf("template: empty slot path")
	}
	prefix, rest, found := strings.Cut(raw, ".")
	if !found {
		return SlotPath{Name: raw, Destination: slot.ScopeConversation}, nil
	}
	switch prefix {
	case "conversation":
		return SlotPath{Name: rest, Destination: slot.ScopeConversation}, nil
	case "session":
		return SlotPath{Name: rest, Destination: slot.ScopeSession}, nil
	case "module":
		return SlotPath{Name: rest, Destination: slot.ScopeModule}, nil
	case "global":
		return SlotPath{Name: rest, Destination: slot.ScopeGlobal}, nil
	default:
		// No recognized destination prefix; treat the whole body as a
		// (possibly dotted) conversation-scoped slot name.
		return SlotPath{Name: raw, Destination: slot.ScopeConversation}, nil
	}
}
