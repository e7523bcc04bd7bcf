package step

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codeready-toolchain/hikari/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSseCall_Execute_TeesDataLinesAndCapturesLastEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		w.Write([]byte("data: first\n\n"))
		flusher.Flush()
		w.Write([]byte("data: second\n\n"))
		flusher.Flush()
	}))
	defer server.Close()

	ec := newTestExecCtx(t)
	eventSlot := SlotPath{Name: "last_event"}
	s := NewSseCall("stream", server.Client(), http.MethodGet, template.Template(server.URL), nil, "", "", &eventSlot, nil)

	resp, err := s.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "firstsecond", drain(t, resp.Chunks))

	value, ok, err := ec.Store.GetOne(context.Background(), ec.ConversationKey(), "last_event")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestSseCall_Execute_NoEventSlotSkipsWrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("data: only\n\n"))
	}))
	defer server.Close()

	ec := newTestExecCtx(t)
	s := NewSseCall("stream", server.Client(), http.MethodGet, template.Template(server.URL), nil, "", "", nil, nil)

	resp, err := s.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "only", drain(t, resp.Chunks))
}

func TestSseCall_Execute_ResponsePathClosesStreamEarly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		w.Write([]byte(`data: {"text":"partial","done":false}` + "\n\n"))
		flusher.Flush()
		w.Write([]byte(`data: {"text":"final","done":true}` + "\n\n"))
		flusher.Flush()
		// A well-behaved client closes the read side once responsePath
		// resolves; a server that kept writing after this point would hang
		// a client that didn't.
	}))
	defer server.Close()

	ec := newTestExecCtx(t)
	s := NewSseCall("stream", server.Client(), http.MethodGet, template.Template(server.URL), nil, "", "done", nil, nil)

	resp, err := s.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, `{"text":"partial","done":false}{"text":"final","done":true}`, drain(t, resp.Chunks))
}
