package agentspec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the eleven step variants plus the conversation
// summarizer supplement (spec.md §4.3; ConversationSummarizer added
// per SPEC_FULL.md since spec.md's Non-goals exclude only journal
// summarization, not in-conversation summarization).
type Kind string

const (
	KindTextMessage           Kind = "text-message"
	KindMessageGenerator      Kind = "message-generator"
	KindValidator             Kind = "validator"
	KindExtractor             Kind = "extractor"
	KindVectorDBExtractor     Kind = "vector-db-extractor"
	KindApiCall               Kind = "api-call"
	KindSseCall               Kind = "sse-call"
	KindSetSlot               Kind = "set-slot"
	KindCounter               Kind = "counter"
	KindGoTo                  Kind = "go-to"
	KindCombined              Kind = "combined"
	KindConversationSummarizer Kind = "conversation-summarizer"
)

// Step is one node of the Agent Spec step graph. It decodes from YAML by
// reading a "kind" discriminator field and then unmarshaling the
// remaining fields into the variant-specific Config, mirroring the
// original's per-variant builder structs (hikari-llm/src/builder/steps/*)
// collapsed into a single Go discriminated union since Go has no native
// sum type.
type Step struct {
	Kind       Kind
	Conditions []Condition
	Hold       bool
	Config     any // one of the *Config types below, matching Kind
}

// TextMessageConfig sends a rendered Template as an outbound message.
type TextMessageConfig struct {
	Message string `yaml:"message"`
}

// MessageGeneratorConfig calls the LLM to produce the next message,
// optionally with bound tools.
type MessageGeneratorConfig struct {
	ToolChoice string   `yaml:"tool-choice,omitempty"` // auto|required|<tool-name>
	Tools      []string `yaml:"tools,omitempty"`
	Stream     bool     `yaml:"stream,omitempty"`
}

// ValidatorConfig asks the LLM whether the previous response satisfies
// each of one or more named goals, writing a boolean per goal and
// optionally jumping to a goal's on-fail step when it doesn't hold
// (spec.md §4.3, §8 scenario 3).
type ValidatorConfig struct {
	Goals []ValidatorGoalConfig `yaml:"goals"`
}

// ValidatorGoalConfig is one named criterion within a Validator step. When
// the goal's criterion does not hold, the orchestrator jumps to OnFail (if
// set); when several goals fail at once, the first-declared failing goal's
// OnFail wins.
type ValidatorGoalConfig struct {
	Name       string `yaml:"name"`
	Criterion  string `yaml:"criterion"`
	OnFail     string `yaml:"on-fail,omitempty"`
	ResultSlot string `yaml:"result-slot,omitempty"` // defaults to the goal name
}

// ExtractorConfig asks the LLM to pull a structured value out of the
// prior response into a slot.
type ExtractorConfig struct {
	Instruction string `yaml:"instruction"`
	ResultSlot  string `yaml:"result-slot"`
	Schema      []OpenApiField `yaml:"schema,omitempty"`
}

// VectorDBExtractorConfig retrieves the top-k nearest documents from a
// named document set by cosine similarity against an embedded query.
type VectorDBExtractorConfig struct {
	Query       string `yaml:"query"`
	DocumentSet string `yaml:"document-set"`
	TopK        int    `yaml:"top-k"`
	ResultSlot  string `yaml:"result-slot"`
}

// ApiCallConfig performs a synchronous HTTP call and extracts a
// response-body field into a slot.
type ApiCallConfig struct {
	Method       string            `yaml:"method"`
	URL          string            `yaml:"url"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	Body         string            `yaml:"body,omitempty"`
	ResponsePath string            `yaml:"response-path,omitempty"` // gjson path
	ResultSlot   string            `yaml:"result-slot,omitempty"`
	OnSuccess    string            `yaml:"on-success,omitempty"` // step id to go to on 2xx
	OnFailure    string            `yaml:"on-failure,omitempty"` // step id to go to otherwise
}

// SseCallConfig subscribes to a server-sent-events endpoint and tees
// received events into the conversation as outbound messages, like
// ApiCall but long-lived: it terminates on server close or on the first
// event whose response-path indicates completion (spec.md §4.3).
type SseCallConfig struct {
	Method       string            `yaml:"method,omitempty"` // defaults to GET
	URL          string            `yaml:"url"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	Body         string            `yaml:"body,omitempty"`
	ResponsePath string            `yaml:"response-path,omitempty"` // gjson path checked per event for completion
	EventSlot    string            `yaml:"event-slot,omitempty"`
}

// SetSlotConfig writes one or more literal/templated values into slots.
type SetSlotConfig struct {
	Values []SlotValue `yaml:"values"`
}

// SlotValue is one (path, template) pair within a SetSlotConfig.
type SlotValue struct {
	Name        string `yaml:"name"`
	Destination string `yaml:"destination,omitempty"` // conversation|session|module|global
	Value       string `yaml:"value"`
}

// CounterConfig increments (or resets) a numeric slot.
type CounterConfig struct {
	Slot        string `yaml:"slot"`
	Destination string `yaml:"destination,omitempty"`
	Delta       int    `yaml:"delta,omitempty"`
	Reset       bool   `yaml:"reset,omitempty"`
}

// GoToConfig unconditionally transfers control to another step id.
type GoToConfig struct {
	Target string `yaml:"target"`
}

// CombinedConfig runs a set of sub-steps concurrently (spec.md §5),
// joining once every branch completes or fails.
type CombinedConfig struct {
	Steps []Step `yaml:"steps"`
}

// ConversationSummarizerConfig asks the LLM to compress the conversation
// memory window into a single summary slot, trading detail for context
// budget on long-running conversations.
type ConversationSummarizerConfig struct {
	ResultSlot string `yaml:"result-slot"`
	MaxWords   int    `yaml:"max-words,omitempty"`
}

// UnmarshalYAML implements custom decoding for the Step discriminated
// union: it reads "kind" (and the shared "conditions"/"hold" fields),
// then decodes the rest of the mapping into the Config type the kind
// selects.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var envelope struct {
		Kind       Kind        `yaml:"kind"`
		Conditions []Condition `yaml:"conditions,omitempty"`
		Hold       bool        `yaml:"hold,omitempty"`
	}
	if err := node.Decode(&envelope); err != nil {
		return fmt.Errorf("agentspec: decode step envelope: %w", err)
	}
	s.Kind = envelope.Kind
	s.Conditions = envelope.Conditions
	s.Hold = envelope.Hold

	var cfg any
	switch envelope.Kind {
	case KindTextMessage:
		cfg = &TextMessageConfig{}
	case KindMessageGenerator:
		cfg = &MessageGeneratorConfig{}
	case KindValidator:
		cfg = &ValidatorConfig{}
	case KindExtractor:
		cfg = &ExtractorConfig{}
	case KindVectorDBExtractor:
		cfg = &VectorDBExtractorConfig{}
	case KindApiCall:
		cfg = &ApiCallConfig{}
	case KindSseCall:
		cfg = &SseCallConfig{}
	case KindSetSlot:
		cfg = &SetSlotConfig{}
	case KindCounter:
		cfg = &CounterConfig{}
	case KindGoTo:
		cfg = &GoToConfig{}
	case KindCombined:
		cfg = &CombinedConfig{}
	case KindConversationSummarizer:
		cfg = &ConversationSummarizerConfig{}
	case "":
		return fmt.Errorf("agentspec: %w", ErrMissingStepKind)
	default:
		return fmt.Errorf("agentspec: unknown step kind %q: %w", envelope.Kind, ErrUnknownStepKind)
	}
	if err := node.Decode(cfg); err != nil {
		return fmt.Errorf("agentspec: decode %s step config: %w", envelope.Kind, err)
	}
	s.Config = cfg
	return nil
}
