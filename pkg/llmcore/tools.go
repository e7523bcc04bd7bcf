package llmcore

import (
	"github.com/codeready-toolchain/hikari/pkg/agentspec"
)

// ToolChoice mirrors original_source hikari-core/src/openai/tools.rs's
// ToolChoice enum (Auto/Named/Required). The any-llm-go Provider does not
// send it to the backend; it binds tools only through the Tools list.
type ToolChoice struct {
	kind string // "auto" | "named" | "required"
	name string
}

// Auto lets the model decide whether to call the bound tool.
func Auto() ToolChoice { return ToolChoice{kind: "auto"} }

// Named forces the model to call the tool with the given name.
func Named(name string) ToolChoice { return ToolChoice{kind: "named", name: name} }

// Required forces a tool call but lets the model pick among those offered.
func Required() ToolChoice { return ToolChoice{kind: "required"} }

// String renders the choice the way an OpenAI-compatible tool_choice
// field expects.
func (c ToolChoice) String() string {
	if c.kind == "named" {
		return c.name
	}
	return c.kind
}

// toolDefsFromConfig converts a MessageGenerator step's declared tool
// catalog into the provider-facing ToolDefinition shape.
func toolDefsFromConfig(tools []agentspec.ToolConfig) []ToolDefinition {
	if len(tools) == 0 {
		return nil
	}
	defs := make([]ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  buildSchema(t.Parameters),
		}
	}
	return defs
}

// buildSchema renders a []agentspec.OpenApiField parameter list into the
// {"type":"object","properties":{...},"required":[...]} JSON Schema shape
// a tool definition's Parameters field expects, grounded on
// original_source hikari-core/src/openai/tools.rs's OpenApiField builder.
func buildSchema(fields []agentspec.OpenApiField) map[string]any {
	properties := make(map[string]any, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		properties[f.Name] = fieldSchema(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// fieldSchema renders one OpenApiField (and its nested items/properties)
// into its JSON Schema representation.
func fieldSchema(f agentspec.OpenApiField) map[string]any {
	schema := map[string]any{"type": f.Type}
	if f.Description != "" {
		schema["description"] = f.Description
	}
	if len(f.Enum) > 0 {
		schema["enum"] = f.Enum
	}
	if f.MinItems != nil {
		schema["minItems"] = *f.MinItems
	}
	if f.MaxItems != nil {
		schema["maxItems"] = *f.MaxItems
	}
	if f.Items != nil {
		schema["items"] = fieldSchema(*f.Items)
	}
	if len(f.Properties) > 0 {
		nested := buildSchema(f.Properties)
		schema["properties"] = nested["properties"]
		if req, ok := nested["required"]; ok {
			schema["required"] = req
		}
	}
	return schema
}

// validatorSchema is the fixed single-field schema every Validator tool
// call binds, grounded on original_source
// hikari-llm/src/execution/tools/validation.rs's ValidationTool, which
// always asks for a single boolean verdict.
func validatorSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"result": map[string]any{
				"type":        "boolean",
				"description": "whether the criterion holds",
			},
		},
		"required": []string{"result"},
	}
}

// summarizerSchema is the fixed schema every ConversationSummarizer tool
// call binds, grounded on original_source
// hikari-llm/src/execution/tools/summarizer.rs's SummarizerTool.
func summarizerSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "the conversation summary",
			},
		},
		"required": []string{"summary"},
	}
}
