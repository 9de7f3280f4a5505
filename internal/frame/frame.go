package frame

import "fmt"

// Channel layout.
const (
	// Size is the number of channels carried by every frame.
	Size = 63

	// WeightCount is the number of blendshape weight channels at the
	// start of a frame.
	WeightCount = 52

	// HeadRotation is the first of three head rotation channels (degrees).
	HeadRotation = 55

	// EyeLeftRotation is the first of two left eye rotation channels (degrees).
	EyeLeftRotation = 58

	// EyeRightRotation is the first of two right eye rotation channels (degrees).
	EyeRightRotation = 60
)

// Frame is one 63-channel capture sample.
//
// Frame is an array, so assignment copies it. Stored recordings never alias
// the live buffer.
type Frame [Size]float64

// Zero is the all-zero frame, the default neutral pose.
var Zero Frame

// FromSlice copies values into a Frame.
// Returns an error unless exactly Size values are given.
func FromSlice(values []float64) (Frame, error) {
	var f Frame
	if len(values) != Size {
		return f, fmt.Errorf("frame: expected %d channels, got %d", Size, len(values))
	}
	copy(f[:], values)
	return f, nil
}

// Head returns the head rotation channels in degrees.
func (f Frame) Head() [3]float64 {
	return [3]float64{f[HeadRotation], f[HeadRotation+1], f[HeadRotation+2]}
}

// EyeLeft returns the left eye rotation channels in degrees.
func (f Frame) EyeLeft() [2]float64 {
	return [2]float64{f[EyeLeftRotation], f[EyeLeftRotation+1]}
}

// EyeRight returns the right eye rotation channels in degrees.
func (f Frame) EyeRight() [2]float64 {
	return [2]float64{f[EyeRightRotation], f[EyeRightRotation+1]}
}
