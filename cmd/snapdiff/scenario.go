package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/diffable/pkg/snapshot"
)

// Scenario is a sequence of desired list states to step through.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one desired state, given as full section contents plus optional
// reload hints.
type Step struct {
	Name           string        `yaml:"name"`
	Sections       []SectionSpec `yaml:"sections"`
	ReloadItems    []string      `yaml:"reload-items,omitempty"`
	ReloadSections []string      `yaml:"reload-sections,omitempty"`
}

// SectionSpec describes one section of a step.
type SectionSpec struct {
	ID    string   `yaml:"id"`
	Items []string `yaml:"items"`
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	for i, step := range sc.Steps {
		if step.Name == "" {
			sc.Steps[i].Name = fmt.Sprintf("step %d", i+1)
		}
	}
	return &sc, nil
}

// Snapshot builds the step's desired state.
func (s Step) Snapshot() snapshot.Snapshot[string, string] {
	sections := make([]snapshot.Section[string, string], len(s.Sections))
	for i, spec := range s.Sections {
		sec := snapshot.Section[string, string]{ID: spec.ID}
		for _, item := range spec.Items {
			sec.Items = append(sec.Items, snapshot.Item[string]{ID: item})
		}
		sections[i] = sec
	}
	snap := snapshot.FromSections(sections)
	if len(s.ReloadItems) > 0 {
		snap.UpdateItems(s.ReloadItems...)
	}
	if len(s.ReloadSections) > 0 {
		snap.UpdateSections(s.ReloadSections...)
	}
	return snap
}
