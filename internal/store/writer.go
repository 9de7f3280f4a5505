package store

import (
	"context"
	"fmt"

	"github.com/roach88/visage/internal/frame"
	"github.com/roach88/visage/internal/recording"
	"github.com/roach88/visage/internal/retarget"
)

// TakeWriter writes baked samples as keyframes into one take.
// It implements recording.SampleSink.
type TakeWriter struct {
	store *Store
	take  Take
	bones Bones
}

var _ recording.SampleSink = (*TakeWriter)(nil)

// TakeWriter returns a sample sink for take.
func (s *Store) TakeWriter(take Take, bones Bones) *TakeWriter {
	return &TakeWriter{store: s, take: take, bones: bones}
}

// WriteSamples converts samples to keyframes and inserts them.
func (w *TakeWriter) WriteSamples(ctx context.Context, samples []recording.Sample) error {
	var keys []Keyframe
	for _, s := range samples {
		keys = appendPoseKeys(keys, float64(s.Position), s.Pose, w.bones)
	}
	if err := w.store.InsertKeyframes(ctx, w.take.ID, keys); err != nil {
		return fmt.Errorf("write take %q: %w", w.take.Name, err)
	}
	return nil
}

// appendPoseKeys emits one key per weight and per rotation axis. Weight
// curves are grouped by the channel's group label, rotation curves by bone.
func appendPoseKeys(keys []Keyframe, t float64, p retarget.PoseParameters, bones Bones) []Keyframe {
	for _, w := range p.Weights {
		keys = append(keys, Keyframe{
			Path:  ShapeKeyPath(w.Name),
			Group: frame.GroupOf(w.Channel).Label(),
			Time:  t,
			Value: w.Value,
		})
	}
	keys = appendRotationKeys(keys, t, p.Head, bones.Head)
	keys = appendRotationKeys(keys, t, p.EyeLeft, bones.EyeLeft)
	keys = appendRotationKeys(keys, t, p.EyeRight, bones.EyeRight)
	return keys
}

func appendRotationKeys(keys []Keyframe, t float64, e *retarget.Euler, bone string) []Keyframe {
	if e == nil || bone == "" {
		return keys
	}
	path := BoneRotationPath(bone)
	for i, v := range e {
		keys = append(keys, Keyframe{Path: path, Index: i, Group: bone, Time: t, Value: v})
	}
	return keys
}
