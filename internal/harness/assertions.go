package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/visage/internal/curves"
)

const defaultTolerance = 1e-9

// AssertionError describes a failed assertion.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against result and returns
// the failure messages in order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertWeight:
		return assertWeight(result, a)
	case AssertNoWeight:
		return assertNoWeight(result, a)
	case AssertCurve:
		return assertCurve(result.Curves, a)
	case AssertCurveCount:
		if len(result.Curves) != *a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d curves", *a.Count),
				Actual:   fmt.Sprintf("%d curves", len(result.Curves)),
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertWeight(result *Result, a Assertion) error {
	if result.Pose == nil {
		return &AssertionError{Type: a.Type, Expected: "an applied pose", Actual: "no apply step ran"}
	}
	v, ok := result.Pose.Value(a.Name)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s = %g", a.Name, a.Value),
			Actual:   fmt.Sprintf("%s not in pose", a.Name),
		}
	}
	if !near(v, a.Value, a.Tolerance) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s = %g", a.Name, a.Value),
			Actual:   fmt.Sprintf("%s = %g", a.Name, v),
		}
	}
	return nil
}

func assertNoWeight(result *Result, a Assertion) error {
	if result.Pose == nil {
		return &AssertionError{Type: a.Type, Expected: "an applied pose", Actual: "no apply step ran"}
	}
	if v, ok := result.Pose.Value(a.Name); ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s not in pose", a.Name),
			Actual:   fmt.Sprintf("%s = %g", a.Name, v),
		}
	}
	return nil
}

func assertCurve(cs []*curves.Curve, a Assertion) error {
	var c *curves.Curve
	for _, candidate := range cs {
		if candidate.Key() == a.Key {
			c = candidate
			break
		}
	}
	if c == nil {
		return &AssertionError{Type: a.Type, Expected: "curve " + a.Key, Actual: "not found"}
	}

	if a.Count != nil && len(c.Points) != *a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s with %d keys", a.Key, *a.Count),
			Actual:   fmt.Sprintf("%d keys", len(c.Points)),
		}
	}
	if a.Times != nil {
		got := make([]float64, len(c.Points))
		for i, p := range c.Points {
			got[i] = p.Time
		}
		if !nearSlice(got, a.Times, a.Tolerance) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s times %v", a.Key, a.Times),
				Actual:   fmt.Sprintf("%v", got),
			}
		}
	}
	if a.Values != nil {
		got := make([]float64, len(c.Points))
		for i, p := range c.Points {
			got[i] = p.Value
		}
		if !nearSlice(got, a.Values, a.Tolerance) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s values %v", a.Key, a.Values),
				Actual:   fmt.Sprintf("%v", got),
			}
		}
	}
	return nil
}

func near(got, want, tolerance float64) bool {
	if tolerance == 0 {
		tolerance = defaultTolerance
	}
	return math.Abs(got-want) <= tolerance
}

func nearSlice(got, want []float64, tolerance float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !near(got[i], want[i], tolerance) {
			return false
		}
	}
	return true
}
