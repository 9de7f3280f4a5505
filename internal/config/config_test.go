package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/visage/internal/curves"
	"github.com/roach88/visage/internal/frame"
	"github.com/roach88/visage/internal/retarget"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "127.0.0.1:8000", cfg.Addr())
	assert.Equal(t, 0, cfg.FrameLatency)

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, retarget.DefaultSettings(), s)

	opts, err := cfg.SmoothOptions()
	require.NoError(t, err)
	assert.Equal(t, curves.DefaultSmoothOptions(), opts)
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load("testdata/session.yaml")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Receiver.Host)
	assert.Equal(t, 9001, cfg.Receiver.Port)
	assert.Equal(t, 5, cfg.Receiver.PollIntervalMS, "omitted keys keep defaults")
	assert.Equal(t, 3, cfg.FrameLatency)
	assert.Equal(t, "Head", cfg.Target.Head)

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, retarget.MirrorLeft, s.Mirror)
	assert.Equal(t, 0.1, s.Head.Bias)
	assert.Equal(t, 1.0, s.Head.Scale)
	assert.True(t, s.Head.Enabled)
	assert.False(t, s.GroupEnabled[frame.GroupTongue])
	assert.True(t, s.GroupEnabled[frame.GroupJaw])
	assert.Equal(t, []bool{true, false, true, true}, s.SubEnabled[frame.GroupJaw])

	opts, err := cfg.SmoothOptions()
	require.NoError(t, err)
	assert.Equal(t, 5, opts.Samples)
	assert.Equal(t, curves.FalloffSmooth, opts.Falloff)
}

func TestLoad_CUE(t *testing.T) {
	cfg, err := Load("testdata/session.cue")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Receiver.Host)
	assert.Equal(t, 9002, cfg.Receiver.Port)
	assert.Equal(t, 2000, cfg.Receiver.JoinTimeoutMS)
	assert.Equal(t, 2, cfg.FrameLatency)
	assert.Equal(t, 60.0, cfg.PreviewRateHz)
	assert.Equal(t, "Skull", cfg.Target.Head)
	assert.Equal(t, "Eye.L", cfg.Target.EyeLeft)

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, retarget.MirrorRight, s.Mirror)
	assert.False(t, s.Eyes.Enabled)
	assert.True(t, s.Head.Enabled)
	assert.False(t, s.GroupEnabled[frame.GroupBrow])

	opts, err := cfg.SmoothOptions()
	require.NoError(t, err)
	assert.True(t, opts.SelectedOnly)
	assert.Equal(t, curves.FalloffLinear, opts.Falloff)
	assert.Equal(t, 3, opts.Samples)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		code string
	}{
		{"unknown extension", "cfg.toml", "x = 1", ErrCodeFormat},
		{"bad yaml", "cfg.yaml", "receiver: [", ErrCodeParse},
		{"bad cue", "cfg.cue", "receiver: {", ErrCodeParse},
		{"port out of range", "cfg.yaml", "receiver: {port: 70000}", ErrCodeSchema},
		{"negative samples", "cfg.yaml", "filter: {samples: -1}", ErrCodeSchema},
		{"unknown falloff", "cfg.yaml", "filter: {falloff: CUBIC}", ErrCodeSchema},
		{"unknown mirror", "cfg.cue", `calibration: mirror: "UP"`, ErrCodeSchema},
		{"unknown group", "cfg.yaml", "calibration: {groups: {lips: {enabled: false}}}", ErrCodeSchema},
		{"unknown key", "cfg.cue", "volume: 11", ErrCodeSchema},
		{"short bias", "cfg.yaml", "calibration: {bias: [0, 0, 0]}", ErrCodeInvalid},
		{"short channel flags", "cfg.yaml", "calibration: {groups: {nose: {channels: [true]}}}", ErrCodeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.body)
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, IsLoadError(err, tt.code), "got %v", err)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, path, le.Path)
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, IsLoadError(err, ErrCodeNotFound))
}

func TestLoad_ArityErrorUnwrapsToConfigError(t *testing.T) {
	path := writeFile(t, "cfg.yaml", "calibration: {scale: [1]}")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, retarget.IsArityError(err))
}

func TestSettings_UnknownGroup(t *testing.T) {
	cfg := Default()
	cfg.Calibration.Groups = map[string]GroupConfig{"lips": {}}

	_, err := cfg.Settings()
	var ce *retarget.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, retarget.ErrCodeUnknownValue, ce.Code)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte("preview_rate_hz: 30\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Second/30, cfg.PreviewInterval())
}

func TestReceiverSettings(t *testing.T) {
	rc := Default().ReceiverSettings()
	assert.Equal(t, "127.0.0.1", rc.Host)
	assert.Equal(t, 8000, rc.Port)
	assert.Equal(t, 5*time.Millisecond, rc.PollInterval)
	assert.Equal(t, 2*time.Second, rc.JoinTimeout)
}
