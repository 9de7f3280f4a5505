package frame

import (
	"math"
	"sync/atomic"
)

// Buffer is the live frame shared between one writer and its readers.
//
// Each channel is an independent atomic cell. Store replaces all cells and
// Load reads all cells; neither takes a lock, so a Load concurrent with a
// Store may return channels from both frames.
type Buffer struct {
	cells  [Size]atomic.Uint64
	writes atomic.Uint64
}

// NewBuffer returns a buffer holding the zero frame.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Store replaces every channel with the values of f.
func (b *Buffer) Store(f Frame) {
	for i, v := range f {
		b.cells[i].Store(math.Float64bits(v))
	}
	b.writes.Add(1)
}

// Load returns a copy of the current channels.
func (b *Buffer) Load() Frame {
	var f Frame
	for i := range f {
		f[i] = math.Float64frombits(b.cells[i].Load())
	}
	return f
}

// Writes returns how many frames have been stored since creation.
func (b *Buffer) Writes() uint64 {
	return b.writes.Load()
}
