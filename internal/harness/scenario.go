// Package harness runs YAML-defined session scenarios: load an edit, drive
// a sequence of commands, and assert on the resolved timeline. Golden-file
// snapshots of the resolved edit back the conformance tests.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tarlow/cutline/internal/timing"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden file
	// name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Edit is the raw edit document (YAML form of the JSON wire format).
	Edit map[string]any `yaml:"edit"`

	// Durations is the static probe table (src -> seconds) backing "auto"
	// length resolution. Sources absent from the table fall back to the
	// session's default clip length.
	Durations map[string]float64 `yaml:"durations,omitempty"`

	// Steps is the command sequence driven against the session.
	Steps []Step `yaml:"steps,omitempty"`

	// Expect asserts on the final resolved state.
	Expect Expect `yaml:"expect,omitempty"`
}

// Step is one command in a scenario flow.
type Step struct {
	// Op selects the command: add_clip, delete_clip, update_clip,
	// update_timing, split_clip, add_track, delete_track, undo, redo,
	// apply_merge_field, remove_merge_field, delete_merge_field, reload.
	Op string `yaml:"op"`

	// Track and Clip address a timeline position.
	Track int `yaml:"track,omitempty"`
	Clip  int `yaml:"clip,omitempty"`

	// Spec is the document clip for add_clip and update_clip, in wire form.
	Spec map[string]any `yaml:"spec,omitempty"`

	// Start and Length feed update_timing; either may be a number, "auto",
	// or (for length) "end".
	Start  *timing.Value `yaml:"start,omitempty"`
	Length *timing.Value `yaml:"length,omitempty"`

	// At is the split time for split_clip.
	At float64 `yaml:"at,omitempty"`

	// Path, Field, and Value feed the merge field commands. For
	// remove_merge_field, Value is the explicit value the property
	// returns to.
	Path  string `yaml:"path,omitempty"`
	Field string `yaml:"field,omitempty"`
	Value any    `yaml:"value,omitempty"`

	// Edit is the replacement document for reload.
	Edit map[string]any `yaml:"edit,omitempty"`
}

// Expect asserts on the final session state.
type Expect struct {
	// Duration is the expected resolved timeline duration.
	Duration *float64 `yaml:"duration,omitempty"`

	// Spans pins individual resolved clip timings.
	Spans []SpanExpect `yaml:"spans,omitempty"`

	// Fields lists the expected merge field names, in order.
	Fields []string `yaml:"fields,omitempty"`
}

// SpanExpect is one expected resolved clip timing.
type SpanExpect struct {
	Track  int     `yaml:"track"`
	Clip   int     `yaml:"clip"`
	Start  float64 `yaml:"start"`
	Length float64 `yaml:"length"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("harness: parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("harness: scenario %s has no name", path)
	}
	return &sc, nil
}
