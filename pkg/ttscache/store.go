// Package ttscache implements the text-to-speech content-hash cache:
// look up synthesized audio by a hash of its source text before
// resynthesizing, and store new audio under a versioned object-store
// prefix (original_source hikari-core/src/tts/cache.rs).
package ttscache

import "context"

// ObjectStore is the blob-storage dependency backing the cache's audio
// payloads, trimmed from
// _examples/haasonsaas-nexus/internal/artifacts/s3_store.go's Store
// interface to the two operations this cache needs. TTS clips are small
// enough to hold fully in memory, so this uses []byte rather than that
// example's io.Reader/ReadCloser streaming shape.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
}
