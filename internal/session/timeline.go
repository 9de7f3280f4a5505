package session

import "sync/atomic"

// Timeline is the frame position driven by Run.
//
// Thread-safety: Timeline is safe for concurrent use.
type Timeline struct {
	pos atomic.Int64
}

// NewTimeline creates a timeline at frame 0.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// NewTimelineAt creates a timeline positioned at start.
func NewTimelineAt(start int64) *Timeline {
	t := &Timeline{}
	t.pos.Store(start)
	return t
}

// Next advances one frame and returns the new position.
func (t *Timeline) Next() int64 {
	return t.pos.Add(1)
}

// Current returns the position without advancing.
func (t *Timeline) Current() int64 {
	return t.pos.Load()
}

// Seek moves the timeline to pos.
func (t *Timeline) Seek(pos int64) {
	t.pos.Store(pos)
}
