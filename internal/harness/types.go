package harness

import (
	"github.com/roach88/visage/internal/curves"
	"github.com/roach88/visage/internal/retarget"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq int    `json:"seq"`
	Op  string `json:"op"`

	// Pos is set for key steps.
	Pos *int `json:"pos,omitempty"`

	// Weights holds the non-zero weights of an applied pose.
	Weights map[string]float64 `json:"weights,omitempty"`

	// Mirror is set for mirror steps.
	Mirror string `json:"mirror,omitempty"`

	// Count is the number of frames baked (save) or timepoints removed
	// (destutter).
	Count *int `json:"count,omitempty"`
}

// Result is the outcome of one scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`

	// Pose is the last applied pose, nil if no apply step ran.
	Pose *retarget.PoseParameters `json:"-"`

	// Curves are the take's curves after the last step.
	Curves []*curves.Curve `json:"-"`
}

// NewResult creates a passing result with an empty trace.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addEvent(e TraceEvent) {
	e.Seq = len(r.Trace) + 1
	r.Trace = append(r.Trace, e)
}
