package step

import (
	"context"
	"fmt"
	"time"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/template"
)

// chunkSize and chunkDelay reproduce the original TextMessage's simulated
// typing cadence (original_source
// hikari-llm/src/execution/steps/text_message.rs: chars().chunks(16),
// sleep(50ms) between chunks) so streamed output paces the same way for
// downstream TTS word-boundary buffering.
const (
	chunkSize  = 16
	chunkDelay = 50 * time.Millisecond
)

// TextMessage sends a rendered Template as a fixed outbound message; it
// never reads a previous response (spec.md §4.3).
type TextMessage struct {
	base
	message template.Template
}

// NewTextMessage builds a TextMessage step.
func NewTextMessage(id string, message template.Template, hold bool, conditions []agentspec.Condition) *TextMessage {
	return &TextMessage{base: newBase(id, conditions, hold), message: message}
}

// Execute resolves the message's slots, renders it, and streams it out in
// fixed-size chunks.
func (t *TextMessage) Execute(ctx context.Context, ec ExecCtx) (Response, error) {
	rendered, err := renderTemplate(ctx, ec, t.message)
	if err != nil {
		return Response{}, fmt.Errorf("text-message %s: %w", t.id, err)
	}

	chunks := make(chan string)
	go streamChunks(ctx, rendered, chunks)

	return Response{Kind: ContentMessage, Chunks: chunks}, nil
}

func (t *TextMessage) AddPreviousResponse(string) {}
func (t *TextMessage) RemovePreviousResponse()    {}

// streamChunks feeds text to out in chunkSize-rune slices, pacing each
// send by chunkDelay, and closes out when done or ctx is canceled.
func streamChunks(ctx context.Context, text string, out chan<- string) {
	defer close(out)
	runes := []rune(text)
	for i := 0; i < len(runes); i += chunkSize {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		select {
		case out <- string(runes[i:end]):
		case <-ctx.Done():
			return
		}
		select {
		case <-time.After(chunkDelay):
		case <-ctx.Done():
			return
		}
	}
}

// renderTemplate resolves a Template's referenced slots against the Slot
// Store and injects them, shared by every step kind that sends a rendered
// string (TextMessage, ApiCall headers/body, SetSlot values).
func renderTemplate(ctx context.Context, ec ExecCtx, tpl template.Template) (string, error) {
	paths, err := tpl.InjectionSlots()
	if err != nil {
		return "", err
	}
	resolved, err := resolveSlotPaths(ctx, ec, paths)
	if err != nil {
		return "", err
	}
	return tpl.Inject(resolved)
}

// resolveSlotPaths batches Get calls per scope (one round-trip per
// distinct destination referenced) and returns a map keyed by
// SlotPath.String(), matching Template.Inject's expected key form.
func resolveSlotPaths(ctx context.Context, ec ExecCtx, paths []template.SlotPath) (map[string]string, error) {
	byScopeKey := make(map[string][]template.SlotPath)
	for _, p := range paths {
		key := ec.KeyFor(p.EffectiveDestination())
		k := key.Scope.String()
		byScopeKey[k] = append(byScopeKey[k], p)
	}

	out := make(map[string]string, len(paths))
	for _, group := range byScopeKey {
		names := make([]string, len(group))
		for i, p := range group {
			names[i] = p.Name
		}
		key := ec.KeyFor(group[0].EffectiveDestination())
		values, err := ec.Store.Get(ctx, key, names)
		if err != nil {
			return nil, fmt.Errorf("step: resolve slots: %w", err)
		}
		for _, p := range group {
			if v, ok := values[p.Name]; ok {
				out[p.String()] = v
			}
		}
	}
	return out, nil
}
