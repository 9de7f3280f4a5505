// Package session owns the state of one capture session: the live frame
// buffer, the receiver controller, the calibration table, the neutral pose
// and the recording buffer.
//
// ARCHITECTURE:
//
// The receiver worker is the only goroutine that writes the live buffer.
// Everything else runs under the session mutex, driven either by Run's
// fixed-rate ticker or by explicit calls (record toggle, save, neutral).
//
// SampleAndApply is the single apply path. It reads the live buffer and
// writes to the pose target and advances no internal state, so the preview
// tick and the frame-change handler may both call it.
//
// Frames are captured into the recording buffer on frame change only while
// recording, playing and not scrubbing. Save stops recording, bakes with
// the configured frame latency and clears the buffer.
package session
