package recording

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/visage/internal/frame"
	"github.com/roach88/visage/internal/retarget"
)

func filled(v float64) frame.Frame {
	var f frame.Frame
	for i := range f {
		f[i] = v
	}
	return f
}

func defaultCalibration(t *testing.T) *retarget.Calibration {
	t.Helper()
	cal, err := retarget.NewCalibration(retarget.DefaultSettings())
	require.NoError(t, err)
	return &cal
}

func channel(t *testing.T, name string) int {
	t.Helper()
	i, ok := frame.Index(name)
	require.True(t, ok, name)
	return i
}

type captureSink struct {
	calls   int
	samples []Sample
	err     error
}

func (s *captureSink) WriteSamples(_ context.Context, samples []Sample) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.samples = append(s.samples, samples...)
	return nil
}

func TestBuffer_RoundTrip(t *testing.T) {
	b := NewBuffer()
	f1, f2, f3 := filled(0.1), filled(0.2), filled(0.3)

	b.Capture(10, f1)
	b.Capture(20, f2)
	b.Capture(10, f3)
	require.Equal(t, 2, b.Len())

	sink := &captureSink{}
	n, err := b.Bake(context.Background(), 3, defaultCalibration(t), frame.Zero, retarget.MirrorNone, sink)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, sink.calls)

	require.Len(t, sink.samples, 2)
	assert.Equal(t, 7, sink.samples[0].Position)
	assert.Equal(t, 17, sink.samples[1].Position)

	v, ok := sink.samples[0].Pose.Value("JawOpen")
	require.True(t, ok)
	assert.Equal(t, 0.3, v, "position 10 keeps the latest capture")

	v, ok = sink.samples[1].Pose.Value("JawOpen")
	require.True(t, ok)
	assert.Equal(t, 0.2, v)

	assert.Equal(t, 0, b.Len(), "buffer is empty after bake")
}

func TestBuffer_CaptureCopiesFrame(t *testing.T) {
	b := NewBuffer()
	live := frame.NewBuffer()
	live.Store(filled(0.5))

	b.Capture(1, live.Load())
	live.Store(filled(0.9))

	samples := b.Samples(0, defaultCalibration(t), frame.Zero, retarget.MirrorNone)
	require.Len(t, samples, 1)
	v, _ := samples[0].Pose.Value("BrowInnerUp")
	assert.Equal(t, 0.5, v)
}

func TestBuffer_SamplesAscending(t *testing.T) {
	b := NewBuffer()
	for _, p := range []int{40, -2, 7, 13, 0} {
		b.Capture(p, filled(float64(p)))
	}

	assert.Equal(t, []int{-2, 0, 7, 13, 40}, b.Positions())

	samples := b.Samples(-1, defaultCalibration(t), frame.Zero, retarget.MirrorNone)
	got := make([]int, len(samples))
	for i, s := range samples {
		got[i] = s.Position
	}
	assert.Equal(t, []int{-1, 1, 8, 14, 41}, got)
	assert.Equal(t, 5, b.Len(), "Samples does not clear")
}

func TestBuffer_BakeAppliesNeutralAndMirror(t *testing.T) {
	b := NewBuffer()
	var f frame.Frame
	f[channel(t, "EyeBlinkLeft")] = 0.8
	f[channel(t, "EyeBlinkRight")] = 0.1
	b.Capture(5, f)

	var neutral frame.Frame
	neutral[channel(t, "EyeBlinkLeft")] = 0.3

	sink := &captureSink{}
	_, err := b.Bake(context.Background(), 0, defaultCalibration(t), neutral, retarget.MirrorLeft, sink)
	require.NoError(t, err)
	require.Len(t, sink.samples, 1)

	right, ok := sink.samples[0].Pose.Value("EyeBlinkRight")
	require.True(t, ok)
	assert.InDelta(t, 0.5, right, 1e-12)
}

func TestBuffer_BakeSinkFailureKeepsFrames(t *testing.T) {
	b := NewBuffer()
	b.Capture(1, filled(0.1))
	b.Capture(2, filled(0.2))

	sink := &captureSink{err: errors.New("disk full")}
	n, err := b.Bake(context.Background(), 0, defaultCalibration(t), frame.Zero, retarget.MirrorNone, sink)
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, b.Len())

	sink.err = nil
	n, err = b.Bake(context.Background(), 0, defaultCalibration(t), frame.Zero, retarget.MirrorNone, sink)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, b.Len())
}

func TestBuffer_BakeEmptySkipsSink(t *testing.T) {
	b := NewBuffer()
	sink := &captureSink{}
	n, err := b.Bake(context.Background(), 0, defaultCalibration(t), frame.Zero, retarget.MirrorNone, sink)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, sink.calls)
}

func TestBuffer_Clear(t *testing.T) {
	b := NewBuffer()
	b.Capture(1, filled(1))
	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Positions())
}

func TestSampleSinkFunc(t *testing.T) {
	var got []Sample
	sink := SampleSinkFunc(func(_ context.Context, s []Sample) error {
		got = s
		return nil
	})

	b := NewBuffer()
	b.Capture(3, filled(0))
	_, err := b.Bake(context.Background(), 1, defaultCalibration(t), frame.Zero, retarget.MirrorNone, sink)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Position)
}
