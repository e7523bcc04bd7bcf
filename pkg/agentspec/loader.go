package agentspec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and validates a single *.agent.yaml document.
func LoadFile(path string) (*AgentSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("agentspec: read %s: %w", path, err)
	}
	var spec AgentSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("agentspec: parse %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("agentspec: %s: %w", path, err)
	}
	merged, err := applyDefaults(&spec)
	if err != nil {
		return nil, fmt.Errorf("agentspec: %s: %w", path, err)
	}
	return merged, nil
}

// LoadDir loads every "*.agent.yaml" file in dir, keyed by module id
// (the filename with the ".agent.yaml" suffix stripped), mirroring the
// teacher's pkg/config directory-scan loading style.
func LoadDir(dir string) (map[string]*AgentSpec, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("agentspec: read dir %s: %w", dir, err)
	}
	specs := make(map[string]*AgentSpec, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".agent.yaml") {
			continue
		}
		moduleID := strings.TrimSuffix(entry.Name(), ".agent.yaml")
		spec, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		specs[moduleID] = spec
	}
	return specs, nil
}
