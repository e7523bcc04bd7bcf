package step

import (
	"context"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
)

// Generator is the MessageGenerator step's dependency on the LLM Core
// (spec.md §4.4), implemented by pkg/llmcore.Core. It owns prompt
// assembly (system prompt, memory window, previous-response carryover)
// internally, mirroring the original's LlmCore::stream which resolves
// memory/slots from the database connection it's handed.
type Generator interface {
	Stream(ctx context.Context, ec ExecCtx, opts GenerateOptions) (<-chan string, error)
}

// GenerateOptions configures one MessageGenerator call.
type GenerateOptions struct {
	PreviousResponse string
	Tools            []agentspec.ToolConfig
	ToolChoice       string // "", "auto", "required", or a tool name
}

// ValidationTool is the Validator step's dependency: ask the LLM whether
// a natural-language criterion holds, grounded on original_source
// hikari-llm/src/execution/tools/validation.rs's ValidationTool.
type ValidationTool interface {
	Validate(ctx context.Context, ec ExecCtx, criterion, previousResponse string) (bool, error)
}

// ExtractionTool is the Extractor step's dependency: ask the LLM to pull
// a value matching schema out of the prior response, grounded on
// original_source hikari-llm/src/execution/tools/extractor.rs.
type ExtractionTool interface {
	Extract(ctx context.Context, ec ExecCtx, instruction, previousResponse string, schema []agentspec.OpenApiField) (any, error)
}

// SummarizerTool is the ConversationSummarizer step's dependency,
// grounded on original_source
// hikari-llm/src/execution/tools/summarizer.rs's SummarizerTool.
type SummarizerTool interface {
	Summarize(ctx context.Context, ec ExecCtx, maxWords int) (string, error)
}

// Retriever is the VectorDBExtractor step's dependency: embed a query and
// return the nearest documents from a named set, implemented by
// pkg/vectorstore.
type Retriever interface {
	Retrieve(ctx context.Context, documentSet, query string, topK int) ([]RetrievedDocument, error)
}

// RetrievedDocument is one nearest-neighbor hit.
type RetrievedDocument struct {
	Content        string
	ProvenanceName string
	ProvenanceLink string
}
