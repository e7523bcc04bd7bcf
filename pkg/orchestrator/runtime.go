package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codeready-toolchain/hikari/pkg/slot"
	"github.com/codeready-toolchain/hikari/pkg/step"
	"github.com/codeready-toolchain/hikari/pkg/template"
	"github.com/codeready-toolchain/hikari/pkg/ttsstream"
	"github.com/google/uuid"
)

// OutboundFunc receives one chunk of a streaming step's output, tagged with
// the id of the step that produced it. Run calls it once per chunk on the
// client branch and once per chunk on the TTS branch of the stream tee
// (spec.md §4.5: "tee stream to client out and to TTS text stream").
type OutboundFunc func(stepID string, chunk string)

const maxExecuteAttempts = 3

// Runtime interprets a compiled Program against one conversation at a time,
// exactly per spec.md §4.5's execution loop. A single Runtime is shared by
// every conversation running against the Program it was built from; per-
// conversation state lives entirely in ConversationStore and slot.Store.
type Runtime struct {
	program *Program
	store   ConversationStore
	slots   *slot.Store
	log     *slog.Logger
	metrics *runtimeMetrics

	mu     sync.Mutex
	active map[uuid.UUID]*conversationRun
}

// conversationRun tracks the cooperative-cancellation handles for one
// in-flight Run call, so Cancel can reach it from another goroutine.
type conversationRun struct {
	mu         sync.Mutex
	cancelStep context.CancelFunc
	closed     atomic.Bool
}

// New builds a Runtime driving program, persisting through store and
// resolving slots through slots.
func New(program *Program, store ConversationStore, slots *slot.Store, log *slog.Logger) *Runtime {
	if log == nil {
		log = slog.Default()
	}
	return &Runtime{
		program: program,
		store:   store,
		slots:   slots,
		log:     log,
		metrics: defaultRuntimeMetricsInstance(),
		active:  make(map[uuid.UUID]*conversationRun),
	}
}

// Cancel requests that a running (or about to run) conversation stop. It
// sets a flag observed between steps and cancels the context of whatever
// step is currently executing, dropping any active provider stream
// immediately without rolling back slot writes already applied (spec.md
// §5). It does not itself close the Conversation entity; the caller (the
// conversation service) is responsible for persisting that transition.
// Cancel returns false if no Run is currently tracking conversationID.
func (r *Runtime) Cancel(conversationID uuid.UUID) bool {
	r.mu.Lock()
	run, ok := r.active[conversationID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	run.closed.Store(true)
	run.mu.Lock()
	if run.cancelStep != nil {
		run.cancelStep()
	}
	run.mu.Unlock()
	return true
}

// Run drives conversationID's step program forward from its persisted
// state until the program suspends at WaitingForInput, runs to completion,
// hits an unrecoverable error, or is cancelled. onClient and onTTS may be
// nil. The returned Status is the status the conversation ended this call
// in (StatusWaitingForInput on suspension, StatusCompleted when the
// program ran off the end, StatusNotStarted with ErrConversationClosed when
// a Cancel was observed between steps, StatusError otherwise).
func (r *Runtime) Run(ctx context.Context, conversationID, userID uuid.UUID, moduleID, sessionID string, onClient, onTTS OutboundFunc) (step.Status, error) {
	run := &conversationRun{}
	r.mu.Lock()
	r.active[conversationID] = run
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.active, conversationID)
		r.mu.Unlock()
	}()

	ec := step.ExecCtx{ConversationID: conversationID, UserID: userID, ModuleID: moduleID, SessionID: sessionID, Store: r.slots}

	state, err := r.store.LoadState(ctx, conversationID)
	if err != nil {
		return step.StatusError, fmt.Errorf("orchestrator: load state: %w", err)
	}

	currentID := state.CurrentStep
	if currentID == "" {
		currentID = r.program.First()
	}

	pendingResponse := state.Response
	// A conversation whose persisted status is still Running for
	// currentID means a prior Run crashed mid-execution of that step
	// rather than finishing it; reattach whatever text the step had
	// streamed out so far instead of starting it cold (spec.md §4.5
	// resume semantics).
	if pendingResponse == "" && state.Status == step.StatusRunning {
		if prior, _, ok, err := r.store.PriorGenerating(ctx, conversationID, currentID); err == nil && ok {
			pendingResponse = prior
		}
	}

	for {
		if run.closed.Load() {
			return step.StatusNotStarted, ErrConversationClosed
		}

		st, ok := r.program.Step(currentID)
		if !ok {
			return step.StatusError, fmt.Errorf("orchestrator: %w: %q", ErrUnknownStep, currentID)
		}

		gated, err := step.EvalConditions(ctx, ec, st.Conditions())
		if err != nil {
			return step.StatusError, fmt.Errorf("orchestrator: eval conditions for %q: %w", currentID, err)
		}
		if !gated {
			st.SetStatus(step.StatusCompleted)
			next, hasNext := r.program.NextInOrder(currentID)
			if !hasNext {
				return r.complete(ctx, conversationID)
			}
			currentID = next
			continue
		}

		st.RemovePreviousResponse()
		if pendingResponse != "" {
			st.AddPreviousResponse(pendingResponse)
		}
		pendingResponse = ""

		st.SetStatus(step.StatusRunning)
		if err := r.store.SaveState(ctx, conversationID, StepState{Status: step.StatusRunning, CurrentStep: currentID}); err != nil {
			return step.StatusError, fmt.Errorf("orchestrator: persist running state for %q: %w", currentID, err)
		}

		stepCtx, stepCancel := context.WithCancel(ctx)
		run.mu.Lock()
		run.cancelStep = stepCancel
		run.mu.Unlock()
		stepStart := time.Now()
		resp, err := r.executeWithRetry(stepCtx, st, ec)

		if err != nil {
			stepCancel()
			r.metrics.recordStep(ctx, currentID, time.Since(stepStart).Seconds(), "error")
			st.SetStatus(step.StatusError)
			r.persistErrorBestEffort(conversationID, currentID)
			return step.StatusError, fmt.Errorf("orchestrator: execute %q: %w", currentID, err)
		}
		r.metrics.recordStep(ctx, currentID, time.Since(stepStart).Seconds(), "ok")

		carried, err := r.apply(ctx, ec, conversationID, currentID, resp, onClient, onTTS)
		stepCancel()
		if err != nil {
			st.SetStatus(step.StatusError)
			r.persistErrorBestEffort(conversationID, currentID)
			return step.StatusError, fmt.Errorf("orchestrator: apply response for %q: %w", currentID, err)
		}
		if carried != "" {
			if mg, ok := st.(interface{ StoreTarget() (step.SlotPath, bool) }); ok {
				if target, has := mg.StoreTarget(); has {
					if err := r.slots.Put(ctx, ec.KeyFor(target.Destination), target.Name, carried); err != nil {
						st.SetStatus(step.StatusError)
						r.persistErrorBestEffort(conversationID, currentID)
						return step.StatusError, fmt.Errorf("orchestrator: store generated text for %q: %w", currentID, err)
					}
				}
			}
		}
		pendingResponse = carried

		finalStatus := st.Finish()

		nextID, hasNext := "", false
		if resp.Kind != step.ContentCombined && resp.HasNext {
			nextID, hasNext = resp.NextStep, true
		}
		if !hasNext {
			nextID, hasNext = r.program.NextInOrder(currentID)
		}

		if err := r.store.SaveState(ctx, conversationID, StepState{Status: finalStatus, CurrentStep: currentID, Response: pendingResponse}); err != nil {
			return step.StatusError, fmt.Errorf("orchestrator: persist finished state for %q: %w", currentID, err)
		}

		if finalStatus == step.StatusWaitingForInput {
			return step.StatusWaitingForInput, nil
		}
		if !hasNext {
			return r.complete(ctx, conversationID)
		}
		currentID = nextID
	}
}

// complete marks the conversation's state and the conversation itself
// Completed, the loop's normal exit (spec.md §4.5's closing two lines).
func (r *Runtime) complete(ctx context.Context, conversationID uuid.UUID) (step.Status, error) {
	if err := r.store.SaveState(ctx, conversationID, StepState{Status: step.StatusCompleted}); err != nil {
		return step.StatusError, fmt.Errorf("orchestrator: persist completed state: %w", err)
	}
	if err := r.store.CompleteConversation(ctx, conversationID); err != nil {
		return step.StatusError, fmt.Errorf("orchestrator: complete conversation: %w", err)
	}
	return step.StatusCompleted, nil
}

// persistErrorBestEffort records a step's terminal Error status using a
// detached context, since the ctx passed to Run may already be the one
// whose cancellation caused the failure being recorded.
func (r *Runtime) persistErrorBestEffort(conversationID uuid.UUID, currentID string) {
	if err := r.store.SaveState(context.Background(), conversationID, StepState{Status: step.StatusError, CurrentStep: currentID}); err != nil {
		r.log.Error("persist error state failed", "conversation_id", conversationID, "step", currentID, "error", err)
	}
}

// executeWithRetry runs st.Execute, retrying provider/transient failures up
// to maxExecuteAttempts times with a short linear backoff. Template
// resolution failures (template.SlotNotFoundError) are never retried —
// spec.md §4.5 treats them as a step failure, not a transient condition.
func (r *Runtime) executeWithRetry(ctx context.Context, st step.Step, ec step.ExecCtx) (step.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= maxExecuteAttempts; attempt++ {
		resp, err := st.Execute(ctx, ec)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var notFound *template.SlotNotFoundError
		if errors.As(err, &notFound) {
			return step.Response{}, err
		}
		if attempt == maxExecuteAttempts {
			break
		}
		r.log.Warn("step execution failed, retrying", "step", st.ID(), "attempt", attempt, "error", err)
		select {
		case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
		case <-ctx.Done():
			return step.Response{}, ctx.Err()
		}
	}
	return step.Response{}, lastErr
}

// apply interprets one step.Response per spec.md §4.5's three-way branch,
// returning the text to carry into the next step's AddPreviousResponse
// call (non-empty only when the response (or one of a Combined response's
// children) was a Message).
func (r *Runtime) apply(ctx context.Context, ec step.ExecCtx, conversationID uuid.UUID, stepID string, resp step.Response, onClient, onTTS OutboundFunc) (string, error) {
	switch resp.Kind {
	case step.ContentMessage:
		return r.applyMessage(ctx, conversationID, stepID, resp, onClient, onTTS)

	case step.ContentStepValue:
		for _, w := range resp.Writes {
			if err := r.slots.Put(ctx, ec.KeyFor(w.Path.Destination), w.Path.Name, w.Value); err != nil {
				return "", fmt.Errorf("write slot %q: %w", w.Path.Name, err)
			}
		}
		return "", nil

	case step.ContentCombined:
		var carried []string
		for _, sub := range resp.Combined {
			c, err := r.apply(ctx, ec, conversationID, stepID, sub, onClient, onTTS)
			if err != nil {
				return "", err
			}
			if c != "" {
				carried = append(carried, c)
			}
		}
		return strings.Join(carried, "\n"), nil

	default:
		return "", fmt.Errorf("unknown response content kind %d", resp.Kind)
	}
}

// applyMessage tees resp.Chunks to the client callback and the TTS text
// stream, persisting a single Generating message that fills in as chunks
// arrive and completes when the stream closes (spec.md §4.5).
func (r *Runtime) applyMessage(ctx context.Context, conversationID uuid.UUID, stepID string, resp step.Response, onClient, onTTS OutboundFunc) (string, error) {
	clientCh, ttsCh := ttsstream.Tee(ctx, resp.Chunks)

	order, err := r.store.NextMessageOrder(ctx, conversationID)
	if err != nil {
		return "", fmt.Errorf("next message order: %w", err)
	}
	messageID, err := r.store.StartMessage(ctx, conversationID, stepID, order, DirectionSend, ContentTypeText, "")
	if err != nil {
		return "", fmt.Errorf("start message: %w", err)
	}

	var ttsWG sync.WaitGroup
	ttsWG.Add(1)
	go func() {
		defer ttsWG.Done()
		for chunk := range ttsCh {
			if onTTS != nil {
				onTTS(stepID, chunk)
			}
		}
	}()

	var buf strings.Builder
	for chunk := range clientCh {
		buf.WriteString(chunk)
		if onClient != nil {
			onClient(stepID, chunk)
		}
		if err := r.store.UpdateMessage(ctx, messageID, buf.String()); err != nil {
			r.log.Warn("update generating message failed", "message_id", messageID, "step", stepID, "error", err)
		}
	}
	ttsWG.Wait()

	full := buf.String()
	if err := r.store.CompleteMessage(ctx, messageID, full); err != nil {
		return "", fmt.Errorf("complete message: %w", err)
	}
	return full, nil
}
