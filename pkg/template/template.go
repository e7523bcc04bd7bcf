package template

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches "{{ destination.name }}" style interpolations.
// Slot names are restricted to the identifier-ish charset the agent-spec
// schema allows.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// SlotNotFoundError reports a placeholder whose slot had no value at
// render time (spec.md §4.2, §7).
type SlotNotFoundError struct {
	Path SlotPath
}

func (e *SlotNotFoundError) Error() string {
	return fmt.Sprintf("template: slot not found: %s", e.Path)
}

// Template is raw step configuration text containing zero or more
// "{{slot}}" placeholders. It is kept as raw text and its placeholders are
// parsed again on each render against resolved slot values.
type Template string

// InjectionSlots returns the distinct SlotPaths this template references,
// in first-occurrence order. Step rendering and LLM Core prompt assembly
// use this to resolve exactly the slots a template needs (spec.md §4.5).
func (t Template) InjectionSlots() ([]SlotPath, error) {
	matches := placeholderPattern.FindAllStringSubmatch(string(t), -1)
	seen := make(map[string]bool, len(matches))
	paths := make([]SlotPath, 0, len(matches))
	for _, m := range matches {
		path, err := ParseSlotPath(m[1])
		if err != nil {
			return nil, err
		}
		key := path.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		paths = append(paths, path)
	}
	return paths, nil
}

// Inject renders the template, substituting each placeholder with its
// canonical text value from resolved. Keys of resolved are SlotPath.String()
// forms. A referenced slot absent from resolved yields *SlotNotFoundError
// and aborts the render (no partial output), matching the original's
// fail-fast injection behavior.
func (t Template) Inject(resolved map[string]string) (string, error) {
	var firstErr error
	out := placeholderPattern.ReplaceAllStringFunc(string(t), func(match string) string {
		if firstErr != nil {
			return match
		}
		sub := placeholderPattern.FindStringSubmatch(match)
		path, err := ParseSlotPath(sub[1])
		if err != nil {
			firstErr = err
			return match
		}
		value, ok := resolved[path.String()]
		if !ok {
			firstErr = &SlotNotFoundError{Path: path}
			return match
		}
		return value
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// HasPlaceholders reports whether t contains any "{{...}}" interpolation.
func (t Template) HasPlaceholders() bool {
	return strings.Contains(string(t), "{{")
}
