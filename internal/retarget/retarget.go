package retarget

import (
	"math"

	"github.com/roach88/visage/internal/frame"
)

// Weight is one named blendshape output.
type Weight struct {
	Channel int     `json:"channel"`
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
}

// Euler is an XYZ rotation in radians.
type Euler [3]float64

// PoseParameters is the sink-ready output of one retarget.
// Nil rotations mean the rotation is disabled and must not be applied.
type PoseParameters struct {
	Weights  []Weight `json:"weights"`
	Head     *Euler   `json:"head,omitempty"`
	EyeLeft  *Euler   `json:"eye_left,omitempty"`
	EyeRight *Euler   `json:"eye_right,omitempty"`
}

// Value returns the output for a named channel.
func (p PoseParameters) Value(name string) (float64, bool) {
	for _, w := range p.Weights {
		if w.Name == name {
			return w.Value, true
		}
	}
	return 0, false
}

// Remap applies the linear (v - bias) * scale remap without clamping.
func Remap(v, bias, scale float64) float64 {
	return (v - bias) * scale
}

func radians(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// Retarget converts one raw frame into pose parameters.
func Retarget(f, neutral frame.Frame, cal *Calibration, mirror MirrorMode) PoseParameters {
	p := PoseParameters{Weights: make([]Weight, 0, frame.WeightCount)}

	for i := 0; i < frame.WeightCount; i++ {
		ch := cal.Channels[i]
		if !ch.Enabled {
			continue
		}
		value := Remap(f[i]-neutral[i], ch.Bias, ch.Scale)

		switch mirror {
		case MirrorLeft:
			p.Weights = appendMirrored(p.Weights, i, value, frame.SideLeft)
		case MirrorRight:
			p.Weights = appendMirrored(p.Weights, i, value, frame.SideRight)
		default:
			p.Weights = append(p.Weights, Weight{Channel: i, Name: frame.Names[i], Value: value})
		}
	}

	if cal.Head.Enabled {
		h := f.Head()
		p.Head = &Euler{
			Remap(radians(h[0]), cal.Head.Bias, cal.Head.Scale),
			Remap(radians(h[1]), cal.Head.Bias, cal.Head.Scale),
			Remap(radians(h[2]), cal.Head.Bias, cal.Head.Scale),
		}
	}

	if cal.Eyes.Enabled {
		l, r := f.EyeLeft(), f.EyeRight()
		p.EyeLeft = &Euler{
			Remap(radians(l[0]), cal.Eyes.Bias, cal.Eyes.Scale),
			Remap(radians(l[1]), cal.Eyes.Bias, cal.Eyes.Scale),
			0,
		}
		p.EyeRight = &Euler{
			Remap(radians(r[0]), cal.Eyes.Bias, cal.Eyes.Scale),
			Remap(radians(r[1]), cal.Eyes.Bias, cal.Eyes.Scale),
			0,
		}
	}

	return p
}

// appendMirrored emits value for a channel under a mirror mode whose driving
// side is driver. Driven-side channels are skipped; driver-side channels
// write both their own slot and their counterpart's.
func appendMirrored(ws []Weight, i int, value float64, driver frame.Side) []Weight {
	side := frame.SideOf(i)
	if side == frame.SideCenter {
		return append(ws, Weight{Channel: i, Name: frame.Names[i], Value: value})
	}
	if side != driver {
		return ws
	}
	c := frame.Counterpart(i)
	return append(ws,
		Weight{Channel: i, Name: frame.Names[i], Value: value},
		Weight{Channel: c, Name: frame.Names[c], Value: value},
	)
}

// ZeroPose returns parameters that reset every output to rest: all weights
// zero and all rotations zero.
func ZeroPose() PoseParameters {
	p := PoseParameters{Weights: make([]Weight, frame.WeightCount)}
	for i, n := range frame.Names {
		p.Weights[i] = Weight{Channel: i, Name: n}
	}
	p.Head, p.EyeLeft, p.EyeRight = &Euler{}, &Euler{}, &Euler{}
	return p
}
