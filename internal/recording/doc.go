// Package recording buffers raw frames captured during a take and bakes
// them through the retargeting stage into timestamped samples.
//
// A Buffer is keyed by timeline position. Capturing the same position twice
// keeps only the latest frame. Bake retargets every captured frame exactly
// once, shifts positions by a constant latency offset, hands the samples to
// a SampleSink and clears the buffer when the sink accepts them.
//
// Buffer is owned by the control context and is not safe for concurrent
// use. Gating capture on the record toggle is the caller's job.
package recording
