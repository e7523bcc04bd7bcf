package ttsstream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainWithTimeout(t *testing.T, ch <-chan string) []string {
	t.Helper()
	var out []string
	for {
		select {
		case s, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, s)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for channel")
		}
	}
}

func TestTee_ClientStreamPassesEveryChunkUnmodified(t *testing.T) {
	chunks := make(chan string, 4)
	chunks <- "hello "
	chunks <- "world"
	close(chunks)

	client, tts := Tee(context.Background(), chunks)
	assert.Equal(t, []string{"hello ", "world"}, drainWithTimeout(t, client))
	drainWithTimeout(t, tts)
}

func TestTee_BuffersAtWordBoundaries(t *testing.T) {
	chunks := make(chan string, 8)
	chunks <- "the quick "
	chunks <- "brown fox"
	close(chunks)

	_, tts := Tee(context.Background(), chunks)
	got := drainWithTimeout(t, tts)
	require.Equal(t, []string{"the ", "quick ", "brown ", "fox "}, got)
}

func TestTee_FlushesRemainderOnClose(t *testing.T) {
	chunks := make(chan string, 2)
	chunks <- "partial"
	close(chunks)

	_, tts := Tee(context.Background(), chunks)
	got := drainWithTimeout(t, tts)
	require.Equal(t, []string{"partial "}, got)
}

func TestTee_StripsEmojiBeforeBuffering(t *testing.T) {
	chunks := make(chan string, 2)
	chunks <- "great job 🎉 keep going"
	close(chunks)

	_, tts := Tee(context.Background(), chunks)
	got := drainWithTimeout(t, tts)
	require.Equal(t, []string{"great ", "job ", "keep ", "going "}, got)
}

func TestTee_ContextCancelStopsForwarding(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	chunks := make(chan string)

	client, tts := Tee(ctx, chunks)
	cancel()

	select {
	case _, ok := <-client:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("client stream did not close after cancel")
	}
	select {
	case _, ok := <-tts:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("tts stream did not close after cancel")
	}
}
