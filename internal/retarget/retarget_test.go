package retarget

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/visage/internal/frame"
)

func rampFrame() frame.Frame {
	var f frame.Frame
	for i := range f {
		f[i] = float64(i+1) / 100
	}
	return f
}

func mustCalibration(t *testing.T, s Settings) Calibration {
	t.Helper()
	c, err := NewCalibration(s)
	require.NoError(t, err)
	return c
}

func TestRetarget_AllChannelsDisabled(t *testing.T) {
	s := DefaultSettings()
	for g := range s.GroupEnabled {
		s.GroupEnabled[g] = false
	}
	s.Head.Enabled = false
	s.Eyes.Enabled = false
	cal := mustCalibration(t, s)

	for _, mirror := range []MirrorMode{MirrorNone, MirrorLeft, MirrorRight} {
		p := Retarget(rampFrame(), frame.Zero, &cal, mirror)
		assert.Empty(t, p.Weights, "mirror %s", mirror)
		assert.Nil(t, p.Head)
		assert.Nil(t, p.EyeLeft)
		assert.Nil(t, p.EyeRight)
	}
}

func TestRetarget_ExactRemap(t *testing.T) {
	s := DefaultSettings()
	for i := range s.Bias {
		s.Bias[i] = float64(i) * 0.01
		s.Scale[i] = 1 + float64(i)*0.1
	}
	cal := mustCalibration(t, s)

	f := rampFrame()
	var neutral frame.Frame
	for i := range neutral {
		neutral[i] = 0.003 * float64(i)
	}

	p := Retarget(f, neutral, &cal, MirrorNone)
	require.Len(t, p.Weights, frame.WeightCount)
	for i, w := range p.Weights {
		assert.Equal(t, i, w.Channel)
		assert.Equal(t, frame.Names[i], w.Name)
		want := (f[i] - neutral[i] - cal.Channels[i].Bias) * cal.Channels[i].Scale
		assert.Equal(t, want, w.Value, "channel %s", w.Name)
	}
}

func TestRetarget_NoClamping(t *testing.T) {
	s := DefaultSettings()
	s.Scale[24] = 10
	cal := mustCalibration(t, s)

	var f frame.Frame
	f[24] = 0.5
	f[25] = -3

	p := Retarget(f, frame.Zero, &cal, MirrorNone)
	v, ok := p.Value("JawOpen")
	require.True(t, ok)
	assert.Equal(t, 5.0, v)

	v, ok = p.Value("JawForward")
	require.True(t, ok)
	assert.Equal(t, -3.0, v)
}

func TestRetarget_DisabledGroupContributesNoEntries(t *testing.T) {
	s := DefaultSettings()
	s.GroupEnabled[frame.GroupMouth] = false
	s.SubEnabled[frame.GroupBrow][0] = false
	cal := mustCalibration(t, s)

	p := Retarget(rampFrame(), frame.Zero, &cal, MirrorNone)
	assert.Len(t, p.Weights, frame.WeightCount-frame.GroupMouth.Len()-1)
	for _, w := range p.Weights {
		assert.NotEqual(t, frame.GroupMouth, frame.GroupOf(w.Channel))
		assert.NotEqual(t, "BrowInnerUp", w.Name)
	}
}

func TestRetarget_MirrorLeft(t *testing.T) {
	cal := mustCalibration(t, DefaultSettings())
	f := rampFrame()

	p := Retarget(f, frame.Zero, &cal, MirrorLeft)

	seen := map[string]int{}
	for _, w := range p.Weights {
		seen[w.Name]++
		if strings.HasSuffix(w.Name, "Right") {
			left := frame.Counterpart(w.Channel)
			assert.Equal(t, f[left], w.Value, "%s must carry %s", w.Name, frame.Names[left])
		}
	}
	for name, n := range seen {
		assert.Equal(t, 1, n, "%s emitted more than once", name)
	}
	assert.Len(t, p.Weights, frame.WeightCount)

	v, ok := p.Value("JawOpen")
	require.True(t, ok)
	assert.Equal(t, f[24], v, "center channels pass through")
}

func TestRetarget_MirrorRight(t *testing.T) {
	cal := mustCalibration(t, DefaultSettings())
	f := rampFrame()

	p := Retarget(f, frame.Zero, &cal, MirrorRight)
	for _, w := range p.Weights {
		if strings.HasSuffix(w.Name, "Left") {
			assert.Equal(t, f[frame.Counterpart(w.Channel)], w.Value, w.Name)
		}
	}
	assert.Len(t, p.Weights, frame.WeightCount)
}

func TestRetarget_MirrorFollowsDriverEnable(t *testing.T) {
	s := DefaultSettings()
	// Disable EyeBlinkLeft (index 13 = eye group offset 8)
	s.SubEnabled[frame.GroupEye][13-frame.GroupEye.Start()] = false
	cal := mustCalibration(t, s)

	p := Retarget(rampFrame(), frame.Zero, &cal, MirrorLeft)
	_, ok := p.Value("EyeBlinkLeft")
	assert.False(t, ok)
	_, ok = p.Value("EyeBlinkRight")
	assert.False(t, ok, "right slot is only driven by the left channel")
}

func TestRetarget_Rotations(t *testing.T) {
	s := DefaultSettings()
	s.Head = RotationRemap{Enabled: true, Bias: 0.1, Scale: 2}
	s.Eyes = RotationRemap{Enabled: true, Bias: 0, Scale: 0.5}
	cal := mustCalibration(t, s)

	var f frame.Frame
	f[55], f[56], f[57] = 90, -180, 0
	f[58], f[59] = 180, 0
	f[60], f[61] = 0, -90

	p := Retarget(f, frame.Zero, &cal, MirrorNone)
	require.NotNil(t, p.Head)
	assert.InDelta(t, (math.Pi/2-0.1)*2, p.Head[0], 1e-12)
	assert.InDelta(t, (-math.Pi-0.1)*2, p.Head[1], 1e-12)
	assert.InDelta(t, -0.2, p.Head[2], 1e-12)

	require.NotNil(t, p.EyeLeft)
	assert.InDelta(t, math.Pi/2, p.EyeLeft[0], 1e-12)
	assert.Equal(t, 0.0, p.EyeLeft[2])

	require.NotNil(t, p.EyeRight)
	assert.InDelta(t, -math.Pi/4, p.EyeRight[1], 1e-12)
	assert.Equal(t, 0.0, p.EyeRight[2])
}

func TestRetarget_RadiansUseDegreeFactor(t *testing.T) {
	s := DefaultSettings()
	s.Head = RotationRemap{Enabled: true, Bias: 0, Scale: 1}
	cal := mustCalibration(t, s)

	var f frame.Frame
	f[55] = 57

	// Multiplying by pi first and then dividing by 180 lands one ULP lower
	// at 57 degrees.
	p := Retarget(f, frame.Zero, &cal, MirrorNone)
	require.NotNil(t, p.Head)
	assert.Equal(t, 0.9948376736367679, p.Head[0])
}

func TestRetarget_NeutralIgnoredForRotations(t *testing.T) {
	cal := mustCalibration(t, DefaultSettings())
	var f, neutral frame.Frame
	f[55] = 180
	neutral[55] = 90

	p := Retarget(f, neutral, &cal, MirrorNone)
	require.NotNil(t, p.Head)
	assert.InDelta(t, math.Pi, p.Head[0], 1e-12)
}

func TestZeroPose(t *testing.T) {
	p := ZeroPose()
	require.Len(t, p.Weights, frame.WeightCount)
	for _, w := range p.Weights {
		assert.Equal(t, 0.0, w.Value)
	}
	assert.Equal(t, &Euler{}, p.Head)
	assert.Equal(t, &Euler{}, p.EyeLeft)
	assert.Equal(t, &Euler{}, p.EyeRight)
}
