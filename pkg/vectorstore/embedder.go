// Package vectorstore implements the VectorDBExtractor step's retrieval
// dependency (spec.md §4.3, §6): embed a query string, then find the
// nearest Documents in a named document set via pgvector cosine
// similarity. Grounded on
// _examples/MrWong99-glyphoxa/pkg/memory/postgres/semantic_index.go (the
// pgvector query shape) and pkg/provider/embeddings/provider.go (the
// Embedder abstraction), adapted from pgxpool-based raw SQL onto this
// module's ent.Client since Document is an ent-managed entity here.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Embedder maps text to a dense float32 vector, grounded on
// _examples/MrWong99-glyphoxa's pkg/provider/embeddings.Provider,
// trimmed to the single method VectorDBExtractor needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// httpEmbedder calls an OpenAI-compatible /embeddings endpoint directly
// over net/http rather than adding github.com/openai/openai-go (the
// dependency glyphoxa's own embeddings/openai package wraps) as a new,
// unwired dependency: pkg/step's ApiCall/SseCall steps already call
// outbound HTTP directly for the same reason, and one REST shape doesn't
// justify a whole new SDK import.
type httpEmbedder struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewHTTPEmbedder builds an Embedder targeting an OpenAI-compatible
// embeddings endpoint. baseURL defaults to the public OpenAI API when
// empty.
func NewHTTPEmbedder(client *http.Client, baseURL, apiKey, model string) Embedder {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &httpEmbedder{client: client, baseURL: baseURL, apiKey: apiKey, model: model}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed implements Embedder.
func (e *httpEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("vectorstore: build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: embedding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vectorstore: embedding request failed: status %d", resp.StatusCode)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("vectorstore: decode embedding response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("vectorstore: empty embedding response")
	}
	return parsed.Data[0].Embedding, nil
}
