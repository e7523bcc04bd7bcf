package agentspec

import (
	"fmt"

	"dario.cat/mergo"
)

// defaultTemperature is applied when a document's model block omits one.
var defaultTemperature = 0.7

// DefaultSpec returns the built-in values a *.agent.yaml document falls
// back to for fields it leaves unset, mirroring the teacher's
// DefaultQueueConfig()/mergo.WithOverride pattern (pkg/config/loader.go):
// start from these defaults, then merge the loaded document on top so its
// explicit fields win.
func DefaultSpec() *AgentSpec {
	return &AgentSpec{
		Model: ModelConfig{
			Provider:    LLMServiceOpenAI,
			Temperature: &defaultTemperature,
		},
		Memory: MemoryConfig{WindowSize: 20},
	}
}

// applyDefaults merges spec's explicit fields over DefaultSpec()'s
// built-ins, so a document that omits provider/temperature/window-size
// still resolves to a runnable configuration instead of a zero value.
func applyDefaults(spec *AgentSpec) (*AgentSpec, error) {
	merged := DefaultSpec()
	if err := mergo.Merge(merged, spec, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("agentspec: merge defaults: %w", err)
	}
	return merged, nil
}
