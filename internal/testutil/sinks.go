package testutil

import (
	"context"
	"sync"

	"github.com/roach88/visage/internal/recording"
	"github.com/roach88/visage/internal/retarget"
)

// RecordingTarget collects every pose applied to it.
//
// Thread-safety: all methods are safe for concurrent use.
type RecordingTarget struct {
	mu      sync.Mutex
	applies []retarget.PoseParameters
	err     error
}

// NewRecordingTarget creates an empty target.
func NewRecordingTarget() *RecordingTarget {
	return &RecordingTarget{}
}

// FailWith makes subsequent Apply calls return err.
func (r *RecordingTarget) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Apply records p.
func (r *RecordingTarget) Apply(p retarget.PoseParameters) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.applies = append(r.applies, p)
	return nil
}

// Count returns the number of successful applies.
func (r *RecordingTarget) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applies)
}

// Last returns the most recent pose, or false if none was applied.
func (r *RecordingTarget) Last() (retarget.PoseParameters, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.applies) == 0 {
		return retarget.PoseParameters{}, false
	}
	return r.applies[len(r.applies)-1], true
}

// SampleRecorder is an in-memory recording.SampleSink.
type SampleRecorder struct {
	mu      sync.Mutex
	batches [][]recording.Sample
	err     error
}

var _ recording.SampleSink = (*SampleRecorder)(nil)

// FailWith makes subsequent writes return err.
func (r *SampleRecorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// WriteSamples stores one batch.
func (r *SampleRecorder) WriteSamples(_ context.Context, samples []recording.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, append([]recording.Sample(nil), samples...))
	return nil
}

// Samples returns every sample written, in write order.
func (r *SampleRecorder) Samples() []recording.Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recording.Sample
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

// Batches returns the number of WriteSamples calls that succeeded.
func (r *SampleRecorder) Batches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}
