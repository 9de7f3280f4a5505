package config

import (
	"fmt"
	"time"

	"github.com/roach88/visage/internal/curves"
	"github.com/roach88/visage/internal/frame"
	"github.com/roach88/visage/internal/receiver"
	"github.com/roach88/visage/internal/retarget"
	"github.com/roach88/visage/internal/store"
)

// Config is the complete session configuration.
type Config struct {
	Receiver      ReceiverConfig    `yaml:"receiver" json:"receiver"`
	FrameLatency  int               `yaml:"frame_latency" json:"frame_latency"`
	PreviewRateHz float64           `yaml:"preview_rate_hz" json:"preview_rate_hz"`
	Target        store.Bones       `yaml:"target" json:"target"`
	Calibration   CalibrationConfig `yaml:"calibration" json:"calibration"`
	Filter        FilterConfig      `yaml:"filter" json:"filter"`
}

// ReceiverConfig is the UDP listen address and worker timing.
type ReceiverConfig struct {
	Host           string `yaml:"host" json:"host"`
	Port           int    `yaml:"port" json:"port"`
	PollIntervalMS int    `yaml:"poll_interval_ms" json:"poll_interval_ms"`
	JoinTimeoutMS  int    `yaml:"join_timeout_ms" json:"join_timeout_ms"`
}

// CalibrationConfig is the editable calibration source.
// Omitted groups, channel flags, bias and scale keep their defaults.
type CalibrationConfig struct {
	Mirror       string                 `yaml:"mirror" json:"mirror"`
	HeadRotation retarget.RotationRemap `yaml:"head_rotation" json:"head_rotation"`
	EyeRotation  retarget.RotationRemap `yaml:"eye_rotation" json:"eye_rotation"`
	Groups       map[string]GroupConfig `yaml:"groups" json:"groups"`
	Bias         []float64              `yaml:"bias" json:"bias"`
	Scale        []float64              `yaml:"scale" json:"scale"`
}

// GroupConfig enables a blendshape group and its channels. Channels must
// list one flag per channel in the group when present.
type GroupConfig struct {
	Enabled  *bool  `yaml:"enabled" json:"enabled"`
	Channels []bool `yaml:"channels" json:"channels"`
}

// FilterConfig configures the Smooth filter.
type FilterConfig struct {
	SelectedOnly bool    `yaml:"selected_only" json:"selected_only"`
	Samples      int     `yaml:"samples" json:"samples"`
	Falloff      string  `yaml:"falloff" json:"falloff"`
	Bias         float64 `yaml:"bias" json:"bias"`
	Scale        float64 `yaml:"scale" json:"scale"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Receiver: ReceiverConfig{
			Host:           "127.0.0.1",
			Port:           8000,
			PollIntervalMS: int(receiver.DefaultPollInterval / time.Millisecond),
			JoinTimeoutMS:  int(receiver.DefaultJoinTimeout / time.Millisecond),
		},
		PreviewRateHz: 60,
		Target:        store.DefaultBones(),
		Calibration: CalibrationConfig{
			Mirror:       retarget.MirrorNone.String(),
			HeadRotation: retarget.RotationRemap{Enabled: true, Scale: 1},
			EyeRotation:  retarget.RotationRemap{Enabled: true, Scale: 1},
		},
		Filter: FilterConfig{
			Samples: 3,
			Falloff: curves.DefaultFalloff.String(),
			Scale:   1,
		},
	}
}

// Settings converts the calibration section into retarget settings.
// Returns a *retarget.ConfigError on unknown names or mismatched arity.
func (c *Config) Settings() (retarget.Settings, error) {
	s := retarget.DefaultSettings()
	cal := c.Calibration

	mirror, err := retarget.ParseMirror(cal.Mirror)
	if err != nil {
		return s, err
	}
	s.Mirror = mirror
	s.Head = cal.HeadRotation
	s.Eyes = cal.EyeRotation

	for name, g := range cal.Groups {
		grp, ok := frame.ParseGroup(name)
		if !ok {
			return s, &retarget.ConfigError{
				Code:    retarget.ErrCodeUnknownValue,
				Field:   "groups." + name,
				Message: "unknown group",
			}
		}
		if g.Enabled != nil {
			s.GroupEnabled[grp] = *g.Enabled
		}
		if g.Channels != nil {
			s.SubEnabled[grp] = append([]bool(nil), g.Channels...)
		}
	}
	if cal.Bias != nil {
		s.Bias = append([]float64(nil), cal.Bias...)
	}
	if cal.Scale != nil {
		s.Scale = append([]float64(nil), cal.Scale...)
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// SmoothOptions converts the filter section.
func (c *Config) SmoothOptions() (curves.SmoothOptions, error) {
	f, err := curves.ParseFalloff(c.Filter.Falloff)
	if err != nil {
		return curves.SmoothOptions{}, err
	}
	opts := curves.SmoothOptions{
		Samples:      c.Filter.Samples,
		Falloff:      f,
		Bias:         c.Filter.Bias,
		Scale:        c.Filter.Scale,
		SelectedOnly: c.Filter.SelectedOnly,
	}
	return opts, opts.Validate()
}

// ReceiverSettings converts the receiver section.
func (c *Config) ReceiverSettings() receiver.Config {
	return receiver.Config{
		Host:         c.Receiver.Host,
		Port:         c.Receiver.Port,
		PollInterval: time.Duration(c.Receiver.PollIntervalMS) * time.Millisecond,
		JoinTimeout:  time.Duration(c.Receiver.JoinTimeoutMS) * time.Millisecond,
	}
}

// PreviewInterval is the period of the preview loop.
func (c *Config) PreviewInterval() time.Duration {
	if c.PreviewRateHz <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.PreviewRateHz)
}

// Addr returns host:port for display.
func (c *Config) Addr() string {
	return receiver.JoinAddr(c.Receiver.Host, c.Receiver.Port)
}

func (c *Config) String() string {
	return fmt.Sprintf("receiver=%s latency=%d preview=%gHz mirror=%s", c.Addr(), c.FrameLatency, c.PreviewRateHz, c.Calibration.Mirror)
}
