// Package agentspec declares the Go types for the declarative Agent Spec
// YAML format (spec.md §6): prompts, model/provider selection, memory
// window, tool declarations, and the step graph. Grounded on
// original_source hikari-config/src/module/llm_agent.rs (LlmAgent/
// LlmService provider selection) and the teacher's pkg/config YAML-struct-tag
// idiom (pkg/config/types.go, pkg/config/loader.go).
package agentspec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only Agent Spec schema version this runtime
// accepts; unknown versions fail Validate with ErrUnsupportedVersion.
const SupportedVersion = "0.1"

// AgentSpec is the root of one *.agent.yaml document.
type AgentSpec struct {
	Version string          `yaml:"version"`
	Prompts PromptsConfig   `yaml:"prompts"`
	Model   ModelConfig     `yaml:"model"`
	Memory  MemoryConfig    `yaml:"memory"`
	Tools   []ToolConfig    `yaml:"tools,omitempty"`
	Steps   map[string]Step `yaml:"steps"`
	// StepOrder preserves the "steps" mapping's document order, since Go
	// maps have none and the Step Program's "absence of successor means
	// next in order" rule (spec.md §3) depends on it. Populated by
	// UnmarshalYAML from the raw mapping node rather than by Steps itself.
	StepOrder []string `yaml:"-"`
}

// UnmarshalYAML decodes AgentSpec the default way, then walks the raw
// "steps" mapping node a second time to record key order into StepOrder.
func (a *AgentSpec) UnmarshalYAML(node *yaml.Node) error {
	type rawSpec AgentSpec
	if err := node.Decode((*rawSpec)(a)); err != nil {
		return err
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value != "steps" {
			continue
		}
		stepsNode := node.Content[i+1]
		a.StepOrder = make([]string, 0, len(stepsNode.Content)/2)
		for j := 0; j < len(stepsNode.Content)-1; j += 2 {
			a.StepOrder = append(a.StepOrder, stepsNode.Content[j].Value)
		}
	}
	return nil
}

// PromptsConfig holds the system/developer prompt templates injected
// ahead of conversation memory on every MessageGenerator call.
type PromptsConfig struct {
	System string `yaml:"system"`
}

// LLMService selects which upstream chat-completion backend a Model
// targets, mirroring the original's LlmService enum.
type LLMService string

const (
	LLMServiceOpenAI LLMService = "openai"
	LLMServiceGwdg    LLMService = "gwdg"
	LLMServiceCustom  LLMService = "custom"
)

// ModelConfig names the LLM agent/provider pair a conversation runs
// against, resolved by pkg/llmcore at execution time.
type ModelConfig struct {
	Provider    LLMService `yaml:"provider,omitempty"`
	CustomURL   string     `yaml:"custom-url,omitempty"`
	Model       string     `yaml:"model"`
	Temperature *float64   `yaml:"temperature,omitempty"`
}

// MemoryConfig bounds how much prior conversation history is prepended
// to a MessageGenerator prompt (spec.md §4.4).
type MemoryConfig struct {
	WindowSize int `yaml:"window-size"`
}

// ToolConfig declares one callable tool surfaced to the LLM alongside a
// MessageGenerator step, built into an OpenAI-style function schema by
// pkg/llmcore's OpenApiField builder.
type ToolConfig struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Parameters  []OpenApiField  `yaml:"parameters,omitempty"`
}

// OpenApiField describes one parameter of a tool's JSON-Schema-shaped
// argument object, grounded on original_source
// hikari-core/src/openai/tools.rs's OpenApiField builder.
type OpenApiField struct {
	Name        string         `yaml:"name"`
	Type        string         `yaml:"type"` // string|number|boolean|object|array
	Description string         `yaml:"description,omitempty"`
	Required    bool           `yaml:"required,omitempty"`
	Enum        []string       `yaml:"enum,omitempty"`
	Items       *OpenApiField  `yaml:"items,omitempty"`
	Properties  []OpenApiField `yaml:"properties,omitempty"`
	MinItems    *int           `yaml:"min-items,omitempty"`
	MaxItems    *int           `yaml:"max-items,omitempty"`
}

// Condition is a single guard clause gating whether a step executes.
// Operators mirror spec.md §4.3: eq, neq, lt, lte, gt, gte, contains,
// exists.
type Condition struct {
	Slot     string `yaml:"slot"`
	Operator string `yaml:"operator"`
	Value    string `yaml:"value,omitempty"`
}

// Validate reports structural errors in the spec that don't require a
// compiled step graph to detect (missing or unsupported version, empty
// step set, step without a kind). The model provider is not checked here.
// Step-graph-level validation (dangling goto targets,
// unreachable steps) lives in pkg/orchestrator's compiler.
func (a *AgentSpec) Validate() error {
	if a.Version == "" {
		return fmt.Errorf("agentspec: %w", ErrMissingVersion)
	}
	if a.Version != SupportedVersion {
		return fmt.Errorf("agentspec: version %q: %w", a.Version, ErrUnsupportedVersion)
	}
	if len(a.Steps) == 0 {
		return fmt.Errorf("agentspec: %w", ErrNoSteps)
	}
	for id, step := range a.Steps {
		if step.Kind == "" {
			return fmt.Errorf("agentspec: step %q: %w", id, ErrMissingStepKind)
		}
	}
	return nil
}
