package retarget

import (
	"fmt"

	"github.com/roach88/visage/internal/frame"
)

// ChannelCalibration is the resolved remap for one weight channel.
type ChannelCalibration struct {
	Bias    float64
	Scale   float64
	Enabled bool
}

// RotationRemap is a shared bias/scale applied to every axis of a rotation.
type RotationRemap struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Bias    float64 `yaml:"bias" json:"bias"`
	Scale   float64 `yaml:"scale" json:"scale"`
}

// Calibration is the full table consumed by Retarget.
type Calibration struct {
	Channels [frame.WeightCount]ChannelCalibration
	Head     RotationRemap
	Eyes     RotationRemap
}

// Settings is the editable calibration source.
//
// SubEnabled holds one slice per group, sized to the group. Bias and Scale
// are indexed by channel and must hold exactly frame.WeightCount entries.
type Settings struct {
	GroupEnabled [frame.GroupCount]bool
	SubEnabled   [frame.GroupCount][]bool
	Bias         []float64
	Scale        []float64
	Mirror       MirrorMode
	Head         RotationRemap
	Eyes         RotationRemap
}

// DefaultSettings enables everything with the identity remap.
func DefaultSettings() Settings {
	s := Settings{
		Bias:  make([]float64, frame.WeightCount),
		Scale: make([]float64, frame.WeightCount),
		Head:  RotationRemap{Enabled: true, Scale: 1},
		Eyes:  RotationRemap{Enabled: true, Scale: 1},
	}
	for _, g := range frame.Groups {
		s.GroupEnabled[g] = true
		s.SubEnabled[g] = make([]bool, g.Len())
		for i := range s.SubEnabled[g] {
			s.SubEnabled[g][i] = true
		}
	}
	for i := range s.Scale {
		s.Scale[i] = 1
	}
	return s
}

// Clone returns a deep copy so callers can edit without aliasing.
func (s Settings) Clone() Settings {
	c := s
	c.Bias = append([]float64(nil), s.Bias...)
	c.Scale = append([]float64(nil), s.Scale...)
	for g := range s.SubEnabled {
		c.SubEnabled[g] = append([]bool(nil), s.SubEnabled[g]...)
	}
	return c
}

// Validate checks every per-channel array against the fixed schedule.
func (s Settings) Validate() error {
	if len(s.Bias) != frame.WeightCount {
		return &ConfigError{Code: ErrCodeArityMismatch, Field: "bias", Expected: frame.WeightCount, Got: len(s.Bias)}
	}
	if len(s.Scale) != frame.WeightCount {
		return &ConfigError{Code: ErrCodeArityMismatch, Field: "scale", Expected: frame.WeightCount, Got: len(s.Scale)}
	}
	for _, g := range frame.Groups {
		if len(s.SubEnabled[g]) != g.Len() {
			return &ConfigError{
				Code:     ErrCodeArityMismatch,
				Field:    fmt.Sprintf("groups.%s.channels", g),
				Expected: g.Len(),
				Got:      len(s.SubEnabled[g]),
			}
		}
	}
	return nil
}

// Enabled resolves the effective enable flag for a weight channel: the
// group flag AND the channel's sub-flag. Channels whose sub-flag is missing
// resolve to disabled.
func Enabled(groups [frame.GroupCount]bool, sub [frame.GroupCount][]bool, channel int) bool {
	g := frame.GroupOf(channel)
	if !groups[g] {
		return false
	}
	i := channel - g.Start()
	return i < len(sub[g]) && sub[g][i]
}

// NewCalibration resolves s into a complete table.
// Returns a *ConfigError if any per-channel array has the wrong arity.
func NewCalibration(s Settings) (Calibration, error) {
	var c Calibration
	if err := s.Validate(); err != nil {
		return c, err
	}
	for i := range c.Channels {
		c.Channels[i] = ChannelCalibration{
			Bias:    s.Bias[i],
			Scale:   s.Scale[i],
			Enabled: Enabled(s.GroupEnabled, s.SubEnabled, i),
		}
	}
	c.Head = s.Head
	c.Eyes = s.Eyes
	return c, nil
}
