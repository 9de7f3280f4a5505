package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/visage/internal/frame"
)

// Scenario is one scripted capture session.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Config is an optional session config path, relative to the scenario
	// file. Defaults apply when empty.
	Config string `yaml:"config,omitempty"`

	// Take names the take saves are baked into. Defaults to Name.
	Take string `yaml:"take,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one scenario operation.
type Step struct {
	Op string `yaml:"op"`

	// Pos is the timeline position for key.
	Pos int `yaml:"pos,omitempty"`

	// Weights sets named weight channels for frame.
	Weights map[string]float64 `yaml:"weights,omitempty"`

	// Head, EyeLeft and EyeRight set rotation channels (degrees) for frame.
	Head     []float64 `yaml:"head,omitempty"`
	EyeLeft  []float64 `yaml:"eye_left,omitempty"`
	EyeRight []float64 `yaml:"eye_right,omitempty"`

	// Mirror is the mode for mirror.
	Mirror string `yaml:"mirror,omitempty"`
}

// Step operations.
const (
	OpFrame        = "frame"
	OpApply        = "apply"
	OpKey          = "key"
	OpNeutral      = "neutral"
	OpResetNeutral = "reset_neutral"
	OpMirror       = "mirror"
	OpSave         = "save"
	OpClear        = "clear"
	OpDestutter    = "destutter"
	OpSmooth       = "smooth"
)

// Assertion checks the final pose or take.
type Assertion struct {
	Type string `yaml:"type"`

	// Name is a weight channel (weight, no_weight).
	Name string `yaml:"name,omitempty"`

	// Value is the expected weight; Tolerance defaults to 1e-9.
	Value     float64 `yaml:"value,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Key identifies a curve (curve).
	Key string `yaml:"key,omitempty"`

	// Count is the expected key count (curve) or curve count (curve_count).
	// Nil skips the check for curve.
	Count *int `yaml:"count,omitempty"`

	// Times and Values are the expected points of a curve.
	Times  []float64 `yaml:"times,omitempty"`
	Values []float64 `yaml:"values,omitempty"`
}

// Assertion types.
const (
	AssertWeight     = "weight"
	AssertNoWeight   = "no_weight"
	AssertCurve      = "curve"
	AssertCurveCount = "curve_count"
)

// LoadScenario reads a scenario file. Unknown fields are rejected and the
// config path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Config != "" && !filepath.IsAbs(scenario.Config) {
		scenario.Config = filepath.Join(filepath.Dir(path), scenario.Config)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if s.Config != "" {
		if _, err := os.Stat(s.Config); err != nil {
			return fmt.Errorf("config file not found: %s", s.Config)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step Step) error {
	switch step.Op {
	case OpFrame:
		for name := range step.Weights {
			if _, ok := frame.Index(name); !ok {
				return fmt.Errorf("steps[%d]: unknown channel %q", index, name)
			}
		}
		if len(step.Head) > 3 || len(step.EyeLeft) > 2 || len(step.EyeRight) > 2 {
			return fmt.Errorf("steps[%d]: head takes 3 angles, eyes take 2", index)
		}
	case OpMirror:
		if step.Mirror == "" {
			return fmt.Errorf("steps[%d]: mirror is required", index)
		}
	case OpApply, OpKey, OpNeutral, OpResetNeutral, OpSave, OpClear, OpDestutter, OpSmooth:
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case AssertWeight, AssertNoWeight:
		if _, ok := frame.Index(a.Name); !ok {
			return fmt.Errorf("assertions[%d]: unknown channel %q", index, a.Name)
		}
	case AssertCurve:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for curve", index)
		}
		if a.Values != nil && a.Times != nil && len(a.Values) != len(a.Times) {
			return fmt.Errorf("assertions[%d]: times and values differ in length", index)
		}
	case AssertCurveCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for curve_count", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
