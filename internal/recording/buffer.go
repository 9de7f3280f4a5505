package recording

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/roach88/visage/internal/frame"
	"github.com/roach88/visage/internal/retarget"
)

// Sample is one baked pose at a latency-corrected timeline position.
type Sample struct {
	Position int                     `json:"position"`
	Pose     retarget.PoseParameters `json:"pose"`
}

// SampleSink receives baked samples. The store's take writer is the
// production implementation.
type SampleSink interface {
	WriteSamples(ctx context.Context, samples []Sample) error
}

// SampleSinkFunc adapts a function to SampleSink.
type SampleSinkFunc func(ctx context.Context, samples []Sample) error

// WriteSamples calls f.
func (f SampleSinkFunc) WriteSamples(ctx context.Context, samples []Sample) error {
	return f(ctx, samples)
}

// Buffer maps timeline positions to captured frames.
type Buffer struct {
	frames map[int]frame.Frame
}

// NewBuffer returns an empty recording buffer.
func NewBuffer() *Buffer {
	return &Buffer{frames: make(map[int]frame.Frame)}
}

// Capture stores a copy of f at pos, replacing any earlier capture there.
func (b *Buffer) Capture(pos int, f frame.Frame) {
	b.frames[pos] = f
}

// Len returns the number of captured positions.
func (b *Buffer) Len() int {
	return len(b.frames)
}

// Positions returns the captured positions in ascending order.
func (b *Buffer) Positions() []int {
	ps := make([]int, 0, len(b.frames))
	for p := range b.frames {
		ps = append(ps, p)
	}
	sort.Ints(ps)
	return ps
}

// Clear discards every captured frame and releases the backing map.
func (b *Buffer) Clear() {
	b.frames = make(map[int]frame.Frame)
}

// Samples retargets every captured frame once and returns the results in
// ascending position order, each shifted by -offset. The buffer is left
// untouched.
func (b *Buffer) Samples(offset int, cal *retarget.Calibration, neutral frame.Frame, mirror retarget.MirrorMode) []Sample {
	out := make([]Sample, 0, len(b.frames))
	for _, pos := range b.Positions() {
		out = append(out, Sample{
			Position: pos - offset,
			Pose:     retarget.Retarget(b.frames[pos], neutral, cal, mirror),
		})
	}
	return out
}

// Bake writes the retargeted samples to sink and clears the buffer.
// When the sink fails the buffer keeps its frames so the bake can be retried.
// Baking an empty buffer does not call the sink.
func (b *Buffer) Bake(ctx context.Context, offset int, cal *retarget.Calibration, neutral frame.Frame, mirror retarget.MirrorMode, sink SampleSink) (int, error) {
	if len(b.frames) == 0 {
		return 0, nil
	}
	samples := b.Samples(offset, cal, neutral, mirror)
	if err := sink.WriteSamples(ctx, samples); err != nil {
		return 0, fmt.Errorf("bake %d samples: %w", len(samples), err)
	}
	b.Clear()
	slog.Debug("recording baked", "frames", len(samples), "offset", offset)
	return len(samples), nil
}
