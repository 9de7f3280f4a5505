package testutil

import "github.com/roach88/visage/internal/frame"

// FilledFrame returns a frame with every channel set to v.
func FilledFrame(v float64) frame.Frame {
	var f frame.Frame
	for i := range f {
		f[i] = v
	}
	return f
}

// RampFrame returns a frame whose channel i holds (i+1)/100.
func RampFrame() frame.Frame {
	var f frame.Frame
	for i := range f {
		f[i] = float64(i+1) / 100
	}
	return f
}
