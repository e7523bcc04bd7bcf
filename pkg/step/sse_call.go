package step

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/template"
	"github.com/tidwall/gjson"
)

// SseCall subscribes to a server-sent-events endpoint and tees each
// received "data:" line into the conversation as an outbound message
// chunk, optionally capturing the latest event into a slot (spec.md
// §4.3, original_source hikari-llm/src/execution/steps/sse_call.rs /
// builder/steps/sse.rs). Like ApiCall, it accepts a configurable method
// and body; unlike ApiCall it terminates either on server close or on the
// first event whose responsePath indicates completion.
type SseCall struct {
	base
	client       *http.Client
	method       string
	url          template.Template
	headers      map[string]template.Template
	body         template.Template
	responsePath string
	eventSlot    *SlotPath
}

// NewSseCall builds an SseCall step.
func NewSseCall(id string, client *http.Client, method string, url template.Template, headers map[string]template.Template, body template.Template, responsePath string, eventSlot *SlotPath, conditions []agentspec.Condition) *SseCall {
	if client == nil {
		client = http.DefaultClient
	}
	return &SseCall{base: newBase(id, conditions, false), client: client, method: method, url: url, headers: headers, body: body, responsePath: responsePath, eventSlot: eventSlot}
}

// Execute opens the SSE connection and streams "data:" payloads as
// message chunks until the server closes the stream, ctx is canceled, or
// an event's responsePath indicates completion.
func (s *SseCall) Execute(ctx context.Context, ec ExecCtx) (Response, error) {
	url, err := renderTemplate(ctx, ec, s.url)
	if err != nil {
		return Response{}, fmt.Errorf("sse-call %s: render url: %w", s.id, err)
	}

	var bodyReader io.Reader
	if s.body != "" {
		body, err := renderTemplate(ctx, ec, s.body)
		if err != nil {
			return Response{}, fmt.Errorf("sse-call %s: render body: %w", s.id, err)
		}
		bodyReader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequestWithContext(ctx, s.method, url, bodyReader)
	if err != nil {
		return Response{}, fmt.Errorf("sse-call %s: build request: %w", s.id, err)
	}
	req.Header.Set("Accept", "text/event-stream")
	for key, tpl := range s.headers {
		value, err := renderTemplate(ctx, ec, tpl)
		if err != nil {
			return Response{}, fmt.Errorf("sse-call %s: render header %q: %w", s.id, key, err)
		}
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("sse-call %s: connect: %w", s.id, err)
	}

	chunks := make(chan string)
	go s.pump(ctx, ec, resp, chunks)

	return Response{Kind: ContentMessage, Chunks: chunks}, nil
}

// pump reads "data: ..." lines from the event stream and forwards their
// payload, closing the response body and channel when done. If
// responsePath is set, each event's payload is inspected at that JSON
// path and the stream is closed early the first time the path resolves
// to a true value (spec.md §4.3's "terminates ... on the first event whose JSON path
// indicates completion"), without waiting for server close. If eventSlot
// is set, the most recent event's payload is written there directly once
// the stream ends, since a single Response cannot carry both a message
// stream and a deferred slot write.
func (s *SseCall) pump(ctx context.Context, ec ExecCtx, resp *http.Response, out chan<- string) {
	defer resp.Body.Close()
	defer close(out)

	var lastEvent string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		payload := strings.TrimSpace(data)
		lastEvent = payload
		select {
		case out <- payload:
		case <-ctx.Done():
			return
		}
		if s.responsePath != "" && gjson.Get(payload, s.responsePath).Bool() {
			break
		}
	}

	if s.eventSlot != nil && lastEvent != "" {
		key := ec.KeyFor(s.eventSlot.Destination)
		if err := ec.Store.Put(ctx, key, s.eventSlot.Name, lastEvent); err != nil {
			return
		}
	}
}

func (s *SseCall) AddPreviousResponse(string) {}
func (s *SseCall) RemovePreviousResponse()    {}
