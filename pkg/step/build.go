package step

import (
	"fmt"
	"net/http"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/slot"
	"github.com/codeready-toolchain/hikari/pkg/template"
)

// Deps bundles every external capability a compiled step graph may need.
// Passed once at Agent Spec compile time (pkg/orchestrator), not per
// execution.
type Deps struct {
	Generator      Generator
	ValidationTool ValidationTool
	ExtractionTool ExtractionTool
	SummarizerTool SummarizerTool
	Retriever      Retriever
	HTTPClient     *http.Client
}

// Build converts one parsed agentspec.Step into an executable Step,
// accumulating parentConditions from any enclosing Combined step the way
// the original threads parent_steps' conditions into each child
// (builder/steps/*.rs's `for step in parent_steps { conditions.extend(...) }`).
// toolCatalog resolves the tool names a MessageGenerator step references
// against the Agent Spec's top-level Tools declarations.
func Build(id string, spec agentspec.Step, deps Deps, toolCatalog map[string]agentspec.ToolConfig, parentConditions []agentspec.Condition) (Step, error) {
	conditions := append(append([]agentspec.Condition{}, spec.Conditions...), parentConditions...)

	switch spec.Kind {
	case agentspec.KindTextMessage:
		cfg := spec.Config.(*agentspec.TextMessageConfig)
		return NewTextMessage(id, template.Template(cfg.Message), spec.Hold, conditions), nil

	case agentspec.KindMessageGenerator:
		cfg := spec.Config.(*agentspec.MessageGeneratorConfig)
		if deps.Generator == nil {
			return nil, fmt.Errorf("step %s: %w", id, missingDependencyError("Generator"))
		}
		tools := make([]agentspec.ToolConfig, 0, len(cfg.Tools))
		for _, name := range cfg.Tools {
			tool, ok := toolCatalog[name]
			if !ok {
				return nil, fmt.Errorf("step %s: %w: %s", id, ErrUnknownTool, name)
			}
			tools = append(tools, tool)
		}
		return NewMessageGenerator(id, deps.Generator, spec.Hold, tools, cfg.ToolChoice, nil, conditions), nil

	case agentspec.KindValidator:
		cfg := spec.Config.(*agentspec.ValidatorConfig)
		if deps.ValidationTool == nil {
			return nil, fmt.Errorf("step %s: %w", id, missingDependencyError("ValidationTool"))
		}
		goals := make([]ValidatorGoal, 0, len(cfg.Goals))
		for _, g := range cfg.Goals {
			resultSlot, err := slotPathFromName(g.ResultSlot)
			if err != nil {
				return nil, fmt.Errorf("step %s: goal %s: %w", id, g.Name, err)
			}
			if resultSlot.Name == "" {
				resultSlot.Name = g.Name
			}
			goals = append(goals, ValidatorGoal{Name: g.Name, Criterion: g.Criterion, OnFail: g.OnFail, ResultSlot: resultSlot})
		}
		return NewValidator(id, deps.ValidationTool, goals, conditions), nil

	case agentspec.KindExtractor:
		cfg := spec.Config.(*agentspec.ExtractorConfig)
		if deps.ExtractionTool == nil {
			return nil, fmt.Errorf("step %s: %w", id, missingDependencyError("ExtractionTool"))
		}
		resultSlot, err := slotPathFromName(cfg.ResultSlot)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", id, err)
		}
		return NewExtractor(id, deps.ExtractionTool, cfg.Instruction, resultSlot, cfg.Schema, conditions), nil

	case agentspec.KindVectorDBExtractor:
		cfg := spec.Config.(*agentspec.VectorDBExtractorConfig)
		if deps.Retriever == nil {
			return nil, fmt.Errorf("step %s: %w", id, missingDependencyError("Retriever"))
		}
		querySlot, err := template.ParseSlotPath(cfg.Query)
		if err != nil {
			return nil, fmt.Errorf("step %s: query slot: %w", id, err)
		}
		resultSlot, err := slotPathFromName(cfg.ResultSlot)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", id, err)
		}
		return NewVectorDBExtractor(id, deps.Retriever, querySlot, resultSlot, cfg.DocumentSet, nil, false, cfg.TopK, conditions), nil

	case agentspec.KindApiCall:
		cfg := spec.Config.(*agentspec.ApiCallConfig)
		resultSlot, err := slotPathFromName(cfg.ResultSlot)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", id, err)
		}
		headers := make(map[string]template.Template, len(cfg.Headers))
		for k, v := range cfg.Headers {
			headers[k] = template.Template(v)
		}
		return NewApiCall(id, deps.HTTPClient, cfg.Method, template.Template(cfg.URL), headers,
			template.Template(cfg.Body), cfg.ResponsePath, resultSlot, cfg.OnSuccess, cfg.OnFailure, conditions), nil

	case agentspec.KindSseCall:
		cfg := spec.Config.(*agentspec.SseCallConfig)
		headers := make(map[string]template.Template, len(cfg.Headers))
		for k, v := range cfg.Headers {
			headers[k] = template.Template(v)
		}
		var eventSlot *SlotPath
		if cfg.EventSlot != "" {
			sp, err := slotPathFromName(cfg.EventSlot)
			if err != nil {
				return nil, fmt.Errorf("step %s: %w", id, err)
			}
			eventSlot = &sp
		}
		method := cfg.Method
		if method == "" {
			method = "GET"
		}
		return NewSseCall(id, deps.HTTPClient, method, template.Template(cfg.URL), headers,
			template.Template(cfg.Body), cfg.ResponsePath, eventSlot, conditions), nil

	case agentspec.KindSetSlot:
		cfg := spec.Config.(*agentspec.SetSlotConfig)
		values := make([]SetSlotValue, 0, len(cfg.Values))
		for _, v := range cfg.Values {
			values = append(values, SetSlotValue{
				Name:        v.Name,
				Destination: slot.ParseScope(v.Destination),
				Value:       template.Template(v.Value),
			})
		}
		return NewSetSlot(id, values, conditions), nil

	case agentspec.KindCounter:
		cfg := spec.Config.(*agentspec.CounterConfig)
		return NewCounter(id, cfg.Slot, slot.ParseScope(cfg.Destination), cfg.Delta, cfg.Reset, conditions), nil

	case agentspec.KindGoTo:
		cfg := spec.Config.(*agentspec.GoToConfig)
		return NewGoTo(id, cfg.Target, conditions), nil

	case agentspec.KindCombined:
		cfg := spec.Config.(*agentspec.CombinedConfig)
		sub := make([]Step, 0, len(cfg.Steps))
		for i, childSpec := range cfg.Steps {
			childID := fmt.Sprintf("%s.%d", id, i)
			child, err := Build(childID, childSpec, deps, toolCatalog, conditions)
			if err != nil {
				return nil, err
			}
			sub = append(sub, child)
		}
		return NewCombined(id, sub, conditions), nil

	case agentspec.KindConversationSummarizer:
		cfg := spec.Config.(*agentspec.ConversationSummarizerConfig)
		if deps.SummarizerTool == nil {
			return nil, fmt.Errorf("step %s: %w", id, missingDependencyError("SummarizerTool"))
		}
		resultSlot, err := slotPathFromName(cfg.ResultSlot)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", id, err)
		}
		return NewConversationSummarizer(id, deps.SummarizerTool, resultSlot, cfg.MaxWords, UpdateAppend, conditions), nil

	default:
		return nil, fmt.Errorf("step %s: %w: %s", id, agentspec.ErrUnknownStepKind, spec.Kind)
	}
}

// slotPathFromName parses a "destination.name" or bare "name" slot
// reference into a local SlotPath.
func slotPathFromName(raw string) (SlotPath, error) {
	if raw == "" {
		return SlotPath{}, nil
	}
	p, err := template.ParseSlotPath(raw)
	if err != nil {
		return SlotPath{}, err
	}
	return SlotPath{Name: p.Name, Destination: p.EffectiveDestination()}, nil
}

// missingDependencyError reports a step kind requiring a Deps field that
// was left nil at Build time.
func missingDependencyError(field string) error {
	return fmt.Errorf("missing required dependency: %s", field)
}
