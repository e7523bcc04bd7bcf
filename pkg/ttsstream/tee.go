// Package ttsstream splits one streaming text source into a client-facing
// copy and a word-aligned copy for downstream text-to-speech synthesis
// (spec.md §9's "producer tees to client + TTS"; grounded on
// original_source hikari-core/src/tts/streaming.rs's attach_text_stream).
package ttsstream

import (
	"context"
	"strings"
)

// Tee splits chunks into a passthrough client stream and a TTS stream
// buffered at word boundaries. The client stream forwards every chunk
// unmodified and closes exactly when chunks does. The TTS stream emits
// complete whitespace-delimited words (each with a trailing space), holding
// back a trailing partial word until more text arrives or the source
// closes, at which point any remainder is flushed with a trailing space
// appended if missing.
func Tee(ctx context.Context, chunks <-chan string) (client <-chan string, tts <-chan string) {
	clientCh := make(chan string, 32)
	ttsCh := make(chan string, 32)

	go func() {
		defer close(clientCh)
		defer close(ttsCh)

		var buffer string
		for {
			var chunk string
			var ok bool
			select {
			case chunk, ok = <-chunks:
				if !ok {
					if buffer != "" {
						if buffer[len(buffer)-1] != ' ' {
							buffer += " "
						}
						sendTo(ctx, ttsCh, buffer)
					}
					return
				}
			case <-ctx.Done():
				return
			}

			select {
			case clientCh <- chunk:
			case <-ctx.Done():
				return
			}

			buffer = flushWords(ctx, ttsCh, buffer+demoji(chunk))
		}
	}()

	return clientCh, ttsCh
}

// flushWords forwards every complete word in buffer to out, returning the
// trailing partial word (if any) to carry into the next chunk. A word is
// complete once a later word has appeared after it; the original's "add
// whitespace" tracking preserves one trailing space on the held-back word
// when the buffer itself ended on a space.
func flushWords(ctx context.Context, out chan<- string, buffer string) string {
	addTrailingSpace := len(buffer) > 0 && buffer[len(buffer)-1] == ' '
	words := strings.Fields(buffer)
	if len(words) <= 1 {
		return buffer
	}

	for _, word := range words[:len(words)-1] {
		sendTo(ctx, out, word+" ")
	}

	last := words[len(words)-1]
	if addTrailingSpace {
		last += " "
	}
	return last
}

func sendTo(ctx context.Context, out chan<- string, s string) {
	select {
	case out <- s:
	case <-ctx.Done():
	}
}
