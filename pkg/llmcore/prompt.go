package llmcore

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/hikari/pkg/step"
	"github.com/codeready-toolchain/hikari/pkg/template"
)

// assemblePrompt builds the message list for one chat-completion call
// following spec.md §4.4's exact order: (1) resolve all slot references in
// the system prompt, (2) prepend retrieved memory messages, (3) apply
// previous_response carryover to the final user message. Grounded on
// original_source hikari-llm/src/execution/steps/message_generator.rs's
// call into LlmCore::stream (the core's own assembly logic is not present
// in the retrieval pack, so the order is taken directly from the
// specification rather than ported from Rust).
func assemblePrompt(ctx context.Context, ec step.ExecCtx, systemPrompt template.Template, memory []MemoryMessage, previousResponse string) ([]Message, error) {
	rendered, err := renderPrompt(ctx, ec, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("llmcore: assemble prompt: %w", err)
	}

	messages := make([]Message, 0, len(memory)+2)
	messages = append(messages, Message{Role: "system", Content: rendered})

	// memory arrives most-recent-first; reverse to chronological order.
	for i := len(memory) - 1; i >= 0; i-- {
		messages = append(messages, Message{Role: memory[i].Role, Content: memory[i].Content})
	}

	if previousResponse != "" {
		messages = append(messages, Message{Role: "user", Content: previousResponse})
	}

	return messages, nil
}

// renderPrompt resolves a Template's referenced slots against the step
// context's Slot Store and injects them. Duplicated from pkg/step's
// unexported renderTemplate/resolveSlotPaths (package-private helpers
// can't cross package boundaries), following the teacher's own
// convention of per-package helper duplication over a shared internal
// package.
func renderPrompt(ctx context.Context, ec step.ExecCtx, tpl template.Template) (string, error) {
	paths, err := tpl.InjectionSlots()
	if err != nil {
		return "", err
	}

	byScopeKey := make(map[string][]template.SlotPath)
	for _, p := range paths {
		key := ec.KeyFor(p.EffectiveDestination())
		byScopeKey[key.Scope.String()] = append(byScopeKey[key.Scope.String()], p)
	}

	resolved := make(map[string]string, len(paths))
	for _, group := range byScopeKey {
		names := make([]string, len(group))
		for i, p := range group {
			names[i] = p.Name
		}
		key := ec.KeyFor(group[0].EffectiveDestination())
		values, err := ec.Store.Get(ctx, key, names)
		if err != nil {
			return "", fmt.Errorf("llmcore: resolve slots: %w", err)
		}
		for _, p := range group {
			if v, ok := values[p.Name]; ok {
				resolved[p.String()] = v
			}
		}
	}

	return tpl.Inject(resolved)
}
