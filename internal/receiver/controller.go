package receiver

import (
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/visage/internal/frame"
)

// DefaultJoinTimeout bounds how long Controller waits for a stopping worker
// before binding a replacement.
const DefaultJoinTimeout = 2 * time.Second

// Config holds the listen address and timing for a Controller.
type Config struct {
	Host         string
	Port         int
	PollInterval time.Duration
	JoinTimeout  time.Duration
}

// Controller wraps a Worker with the idempotent start/stop semantics a UI
// caller expects and holds the single authoritative active worker.
//
// A stopped worker is kept as "retired" until it reaches IDLE. The next
// Start waits for it, so a start→stop→start sequence never has two
// sockets bound to the same address.
type Controller struct {
	mu      sync.Mutex
	cfg     Config
	buf     *frame.Buffer
	opts    []Option
	active  *Worker
	retired *Worker
}

// NewController creates a controller publishing into buf.
// opts are applied to every worker the controller creates.
func NewController(cfg Config, buf *frame.Buffer, opts ...Option) *Controller {
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = DefaultJoinTimeout
	}
	return &Controller{cfg: cfg, buf: buf, opts: opts}
}

// SetAddr changes the address used by the next Start.
func (c *Controller) SetAddr(host string, port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Host = host
	c.cfg.Port = port
}

// Start creates and starts a worker bound to the configured address.
// If a worker already exists it is reset (stopped, joined, re-addressed)
// and started again.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.retired != nil {
		if err := c.retired.Wait(c.cfg.JoinTimeout); err != nil {
			return err
		}
		c.retired = nil
	}

	if c.active == nil {
		opts := append([]Option{WithPollInterval(c.cfg.PollInterval)}, c.opts...)
		c.active = NewWorker(c.cfg.Host, c.cfg.Port, c.buf, opts...)
	} else if err := c.active.Reset(c.cfg.Host, c.cfg.Port, c.cfg.JoinTimeout); err != nil {
		return err
	}

	return c.active.Start()
}

// Stop signals the active worker to stop and drops the reference.
// Safe to call when no worker exists.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return
	}
	c.active.Stop()
	c.retired = c.active
	c.active = nil
	slog.Debug("receiver stop requested", "addr", c.retired.Addr())
}

// Shutdown stops the active worker and waits for it to reach IDLE.
func (c *Controller) Shutdown() error {
	c.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.retired == nil {
		return nil
	}
	if err := c.retired.Wait(c.cfg.JoinTimeout); err != nil {
		return err
	}
	c.retired = nil
	return nil
}

// IsRunning reports whether the active worker is RUNNING.
func (c *Controller) IsRunning() bool {
	return c.Status() == StatusRunning
}

// Status returns the active worker's status, or the retired worker's while
// it is still stopping, or IDLE.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return c.active.Status()
	}
	if c.retired != nil {
		return c.retired.Status()
	}
	return StatusIdle
}

// Worker returns the active worker, or nil.
func (c *Controller) Worker() *Worker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
