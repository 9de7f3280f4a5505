package receiver

import (
	"errors"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/visage/internal/frame"
)

// DefaultPollInterval bounds how long one read attempt may block before the
// loop re-checks the stop flag.
const DefaultPollInterval = 5 * time.Millisecond

// maxDatagram is the largest UDP payload.
const maxDatagram = 65535

// Option configures a Worker.
type Option func(*Worker)

// WithPollInterval sets the socket read timeout per receive attempt.
// Non-positive values keep DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithStatusHook registers fn to be called after every status transition.
// fn may be called from the receive goroutine and must be safe for
// concurrent use.
func WithStatusHook(fn func(Status)) Option {
	return func(w *Worker) {
		w.onStatus = fn
	}
}

// Stats reports datagram counters for one worker.
type Stats struct {
	Received uint64 `json:"received"`
	Dropped  uint64 `json:"dropped"`
}

// Worker receives capture datagrams on one UDP address and publishes
// decoded frames to a shared buffer.
//
// Thread-safety model:
//   - Start, Stop, Reset, Wait: safe from any goroutine
//   - Status, Stats: lock-free reads, safe from any goroutine
//   - the receive loop is the only writer of the frame buffer
type Worker struct {
	buf          *frame.Buffer
	pollInterval time.Duration
	onStatus     func(Status)

	status atomic.Int32

	mu    sync.Mutex // guards addr, conn, done
	addr  string
	conn  net.PacketConn
	done  chan struct{}
	bound string

	received atomic.Uint64
	dropped  atomic.Uint64
}

// NewWorker creates an idle worker for host:port writing into buf.
func NewWorker(host string, port int, buf *frame.Buffer, opts ...Option) *Worker {
	w := &Worker{
		buf:          buf,
		pollInterval: DefaultPollInterval,
		addr:         JoinAddr(host, port),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JoinAddr formats a UDP listen address.
func JoinAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Addr returns the configured listen address.
func (w *Worker) Addr() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addr
}

// BoundAddr returns the address of the socket bound by the last Start,
// which differs from Addr when port 0 was requested.
func (w *Worker) BoundAddr() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bound
}

// Status returns the current lifecycle status.
func (w *Worker) Status() Status {
	return Status(w.status.Load())
}

// IsRunning reports whether the worker is receiving.
func (w *Worker) IsRunning() bool {
	return w.Status() == StatusRunning
}

// Stats returns the datagram counters accumulated across runs.
func (w *Worker) Stats() Stats {
	return Stats{
		Received: w.received.Load(),
		Dropped:  w.dropped.Load(),
	}
}

// Start binds the socket and launches the receive loop.
//
// Returns nil without side effects if the worker is already RUNNING.
// Returns a WORKER_STOPPING error if a previous run has not reached IDLE.
// Returns a BIND_FAILED error if the socket cannot be bound; the status
// stays IDLE.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.Status() {
	case StatusRunning:
		return nil
	case StatusStopping:
		return &Error{Code: ErrCodeWorkerStopping, Message: "worker has not finished stopping", Addr: w.addr}
	}

	conn, err := net.ListenPacket("udp", w.addr)
	if err != nil {
		return &Error{Code: ErrCodeBindFailed, Message: "failed to bind UDP socket", Addr: w.addr, Err: err}
	}

	w.conn = conn
	w.bound = conn.LocalAddr().String()
	w.done = make(chan struct{})
	w.setStatus(StatusRunning)

	slog.Info("receiver started", "addr", w.bound, "poll_interval", w.pollInterval)

	go w.loop(conn, w.done)
	return nil
}

// Stop requests shutdown and returns immediately.
// Safe to call in any state; only a RUNNING worker is affected.
func (w *Worker) Stop() {
	if w.status.CompareAndSwap(int32(StatusRunning), int32(StatusStopping)) {
		w.notify(StatusStopping)
	}
}

// Wait blocks until the worker is IDLE or timeout elapses.
func (w *Worker) Wait(timeout time.Duration) error {
	w.mu.Lock()
	done := w.done
	addr := w.addr
	w.mu.Unlock()

	if done == nil || w.Status() == StatusIdle {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return &Error{Code: ErrCodeJoinTimeout, Message: "worker did not stop in time", Addr: addr}
	}
}

// Reset stops any current run, waits for IDLE and rebinds the worker to a
// new address. The next Start listens on host:port.
func (w *Worker) Reset(host string, port int, timeout time.Duration) error {
	w.Stop()
	if err := w.Wait(timeout); err != nil {
		return err
	}

	w.mu.Lock()
	w.addr = JoinAddr(host, port)
	w.mu.Unlock()
	return nil
}

func (w *Worker) setStatus(s Status) {
	w.status.Store(int32(s))
	w.notify(s)
}

func (w *Worker) notify(s Status) {
	if w.onStatus != nil {
		w.onStatus(s)
	}
}

// loop runs on its own goroutine for the lifetime of one Start.
func (w *Worker) loop(conn net.PacketConn, done chan struct{}) {
	defer close(done)

	packet := make([]byte, maxDatagram)
	var received, dropped uint64

	for w.Status() == StatusRunning {
		if err := conn.SetReadDeadline(time.Now().Add(w.pollInterval)); err != nil {
			slog.Warn("receiver: failed to set read deadline", "error", err)
			break
		}

		n, _, err := conn.ReadFrom(packet)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			slog.Error("receiver: socket read failed", "error", err)
			break
		}

		f, err := Decode(packet[:n])
		if err != nil {
			dropped++
			w.dropped.Add(1)
			continue
		}

		w.buf.Store(f)
		received++
		w.received.Add(1)
	}

	// A read failure exits while still RUNNING; pass through STOPPING so
	// observers see the same transitions as a requested stop.
	w.Stop()

	if err := conn.Close(); err != nil {
		slog.Warn("receiver: failed to close socket", "error", err)
	}

	addr := conn.LocalAddr().String()
	slog.Debug("receiver: datagrams", "addr", addr, "received", received, "dropped", dropped)
	slog.Info("receiver stopped", "addr", addr)
	w.setStatus(StatusIdle)
}
