package step

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/template"
	"github.com/tidwall/gjson"
)

// apiTimeout bounds a single ApiCall/SseCall round trip.
const apiTimeout = 30 * time.Second

// ApiCall performs a synchronous HTTP call, extracts a response field
// into a slot, and transfers control to onSuccess or onFailure depending
// on the response status (spec.md §4.3, original_source
// hikari-llm/src/execution/steps/api_call.rs /
// builder/steps/api.rs's success/fail Flow resolution).
type ApiCall struct {
	base
	client       *http.Client
	method       string
	url          template.Template
	headers      map[string]template.Template
	body         template.Template
	responsePath string
	resultSlot   SlotPath
	onSuccess    string
	onFailure    string
}

// NewApiCall builds an ApiCall step. client may be nil, in which case
// http.DefaultClient is used.
func NewApiCall(id string, client *http.Client, method string, url template.Template, headers map[string]template.Template, body template.Template, responsePath string, resultSlot SlotPath, onSuccess, onFailure string, conditions []agentspec.Condition) *ApiCall {
	if client == nil {
		client = http.DefaultClient
	}
	return &ApiCall{
		base: newBase(id, conditions, false), client: client, method: method, url: url, headers: headers,
		body: body, responsePath: responsePath, resultSlot: resultSlot, onSuccess: onSuccess, onFailure: onFailure,
	}
}

// Execute renders the URL/headers/body, issues the call, extracts the
// response field (if configured), and transfers control based on status.
func (a *ApiCall) Execute(ctx context.Context, ec ExecCtx) (Response, error) {
	respBody, statusCode, err := a.do(ctx, ec)
	if err != nil {
		return Response{}, fmt.Errorf("api-call %s: %w", a.id, err)
	}

	var writes []SlotWrite
	pathFound := a.responsePath == ""
	if a.responsePath != "" {
		result := gjson.GetBytes(respBody, a.responsePath)
		if result.Exists() {
			pathFound = true
			if a.resultSlot.Name != "" {
				writes = []SlotWrite{{Path: a.resultSlot, Value: result.String()}}
			}
		}
	}

	next := a.onFailure
	if statusCode >= 200 && statusCode < 300 && pathFound {
		next = a.onSuccess
	}

	return Response{Kind: ContentStepValue, Writes: writes, NextStep: next, HasNext: next != ""}, nil
}

func (a *ApiCall) do(ctx context.Context, ec ExecCtx) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	url, err := renderTemplate(ctx, ec, a.url)
	if err != nil {
		return nil, 0, fmt.Errorf("render url: %w", err)
	}

	var bodyReader io.Reader
	if a.body != "" {
		body, err := renderTemplate(ctx, ec, a.body)
		if err != nil {
			return nil, 0, fmt.Errorf("render body: %w", err)
		}
		bodyReader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequestWithContext(ctx, a.method, url, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	for key, tpl := range a.headers {
		value, err := renderTemplate(ctx, ec, tpl)
		if err != nil {
			return nil, 0, fmt.Errorf("render header %q: %w", key, err)
		}
		req.Header.Set(key, value)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response body: %w", err)
	}
	return data, resp.StatusCode, nil
}

func (a *ApiCall) AddPreviousResponse(string) {}
func (a *ApiCall) RemovePreviousResponse()    {}
