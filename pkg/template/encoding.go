package template

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encode converts a decoded value (as produced by Extractor, ApiCall
// response_path extraction, or tool arguments) into the canonical slot text
// encoding (spec.md §6): strings pass through raw, numbers render as plain
// decimal, booleans as "true"/"false", nil as "null", and any structured
// value (map/slice) renders as single-line YAML flow form so it round-trips
// bit-exact through interop with other slot producers.
func Encode(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case string:
		return val, nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case int:
		return strconv.Itoa(val), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case json.Number:
		return val.String(), nil
	default:
		return encodeStructured(val)
	}
}

// encodeStructured renders maps, slices, and other composite values as a
// single-line YAML flow sequence/mapping, e.g. {a: 1, b: [1, 2]}.
func encodeStructured(v any) (string, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return "", fmt.Errorf("template: encode structured slot value: %w", err)
	}
	forceFlowStyle(&node)

	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", fmt.Errorf("template: marshal structured slot value: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// forceFlowStyle recursively switches mapping and sequence nodes to flow
// style so the marshaled result is a single line regardless of nesting.
func forceFlowStyle(node *yaml.Node) {
	switch node.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		node.Style = yaml.FlowStyle
	}
	for _, child := range node.Content {
		forceFlowStyle(child)
	}
}

// Decode parses a canonical slot text value back into a Go value, inverse
// of Encode, for callers that need the typed value behind a slot. The step
// library does not use it: Counter and numeric guard conditions parse slot
// text with strconv directly.
func Decode(text string) (any, error) {
	if text == "null" {
		return nil, nil
	}
	if text == "true" {
		return true, nil
	}
	if text == "false" {
		return false, nil
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, nil
	}
	// Fall back to YAML for flow-style structured values; a parse failure
	// means the text is just a plain string, not an encoding error.
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		var out any
		if err := yaml.Unmarshal([]byte(text), &out); err == nil {
			return out, nil
		}
	}
	return text, nil
}
