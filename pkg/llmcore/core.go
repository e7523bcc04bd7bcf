package llmcore

import (
	"fmt"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/template"
)

// Core is the LLM Core (spec.md §4.4): it owns prompt assembly and the
// provider call, and implements every tool-bound step dependency
// (pkg/step.Generator, ValidationTool, ExtractionTool, SummarizerTool).
type Core struct {
	provider     Provider
	systemPrompt template.Template
	memory       MemoryProvider
	windowSize   int
	temperature  *float64
}

// NewCore resolves model to a Provider and returns a Core ready to back
// an Agent Spec's steps. apiKey is supplied by the caller (cmd/hikari
// reads it from LLM_API_KEY, whatever model.Provider is).
func NewCore(model agentspec.ModelConfig, apiKey string, systemPrompt template.Template, memory MemoryProvider, windowSize int) (*Core, error) {
	provider, err := buildProvider(model, apiKey)
	if err != nil {
		return nil, fmt.Errorf("llmcore: new core: %w", err)
	}
	return &Core{
		provider:     provider,
		systemPrompt: systemPrompt,
		memory:       memory,
		windowSize:   windowSize,
		temperature:  model.Temperature,
	}, nil
}

// buildProvider maps an agentspec.ModelConfig onto a concrete Provider.
// All three LLMService values resolve to an OpenAI-compatible backend,
// distinguished only by base URL: LLMServiceOpenAI targets the public API
// (no override), LLMServiceGwdg targets GWDG's academic-cloud
// OpenAI-compatible endpoint via model.CustomURL, and LLMServiceCustom
// targets an arbitrary OpenAI-compatible URL also via model.CustomURL.
func buildProvider(model agentspec.ModelConfig, apiKey string) (Provider, error) {
	if model.Model == "" {
		return nil, fmt.Errorf("llmcore: model name must not be empty")
	}

	baseURL := ""
	switch model.Provider {
	case agentspec.LLMServiceOpenAI, "":
		baseURL = ""
	case agentspec.LLMServiceGwdg, agentspec.LLMServiceCustom:
		if model.CustomURL == "" {
			return nil, fmt.Errorf("llmcore: provider %q requires custom-url", model.Provider)
		}
		baseURL = model.CustomURL
	default:
		return nil, fmt.Errorf("llmcore: unknown provider %q", model.Provider)
	}

	return newAnyLLMProvider(model.Model, baseURL, apiKey)
}
