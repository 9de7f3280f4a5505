// Package frame defines the 63-channel capture frame and its fixed layout.
//
// A Frame is one sample from the capture source, delivered as a single
// "/visage" datagram. Channels are positional:
//
//	[0,52)   blendshape weights, named by the Schedule
//	[52,55)  head translation (reserved, unused by retargeting)
//	[55,58)  head rotation, degrees, XYZ Euler
//	[58,60)  left eye rotation, degrees, XY
//	[60,62)  right eye rotation, degrees, XY
//	62       capture timestamp (reserved, unused by retargeting)
//
// The 52 weights are grouped into seven contiguous sets (brow, eye, cheek,
// nose, jaw, mouth, tongue). Group membership and left/right mirror
// counterparts are compile-time tables indexed by channel.
//
// Buffer is the live frame shared between the receive goroutine and the
// consumer. It holds one atomic cell per channel: writers replace every cell,
// readers load every cell, and a read racing a write may observe a mix of two
// frames. That is acceptable for a continuously resampled signal.
package frame
