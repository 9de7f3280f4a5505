package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/visage/internal/config"
	"github.com/roach88/visage/internal/frame"
	"github.com/roach88/visage/internal/receiver"
	"github.com/roach88/visage/internal/recording"
	"github.com/roach88/visage/internal/retarget"
)

// PoseTarget receives retargeted pose parameters.
type PoseTarget interface {
	Apply(p retarget.PoseParameters) error
}

// PoseTargetFunc adapts a function to PoseTarget.
type PoseTargetFunc func(p retarget.PoseParameters) error

// Apply calls f.
func (f PoseTargetFunc) Apply(p retarget.PoseParameters) error {
	return f(p)
}

// Session is one capture session.
//
// Thread-safety: all methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	live       *frame.Buffer
	controller *receiver.Controller
	target     PoseTarget
	timeline   *Timeline

	settings retarget.Settings
	cal      retarget.Calibration
	neutral  frame.Frame

	rec          *recording.Buffer
	frameLatency int
	interval     time.Duration

	previewing bool
	recording  bool

	receiverOpts []receiver.Option
}

// Option configures a Session.
type Option func(*Session)

// WithReceiverOptions passes options to every receiver worker.
func WithReceiverOptions(opts ...receiver.Option) Option {
	return func(s *Session) {
		s.receiverOpts = append(s.receiverOpts, opts...)
	}
}

// WithTimeline replaces the session timeline.
func WithTimeline(t *Timeline) Option {
	return func(s *Session) {
		s.timeline = t
	}
}

// New creates a session from cfg. The receiver is not started.
// Returns an error if the calibration section does not resolve.
func New(cfg *config.Config, target PoseTarget, opts ...Option) (*Session, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	cal, err := retarget.NewCalibration(settings)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if target == nil {
		target = PoseTargetFunc(func(retarget.PoseParameters) error { return nil })
	}

	s := &Session{
		live:         frame.NewBuffer(),
		target:       target,
		timeline:     NewTimeline(),
		settings:     settings,
		cal:          cal,
		rec:          recording.NewBuffer(),
		frameLatency: cfg.FrameLatency,
		interval:     cfg.PreviewInterval(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.controller = receiver.NewController(cfg.ReceiverSettings(), s.live, s.receiverOpts...)
	return s, nil
}

// Buffer returns the live frame buffer the receiver publishes into.
func (s *Session) Buffer() *frame.Buffer { return s.live }

// Controller returns the receiver controller.
func (s *Session) Controller() *receiver.Controller { return s.controller }

// Timeline returns the timeline driven by Run.
func (s *Session) Timeline() *Timeline { return s.timeline }

// StartReceiver starts (or restarts) the receiver.
func (s *Session) StartReceiver() error {
	return s.controller.Start()
}

// StopReceiver requests the receiver to stop without waiting.
func (s *Session) StopReceiver() {
	s.controller.Stop()
}

// SampleAndApply retargets the current live frame and applies it to the
// target. It only reads session state.
func (s *Session) SampleAndApply() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked()
}

func (s *Session) applyLocked() error {
	p := retarget.Retarget(s.live.Load(), s.neutral, &s.cal, s.settings.Mirror)
	return s.target.Apply(p)
}

// Tick is the preview timer step: it applies the live frame while preview
// is on and a receiver exists.
func (s *Session) Tick() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.previewing || s.controller.Worker() == nil {
		return nil
	}
	return s.applyLocked()
}

// OnFrameChange is the timeline frame-change handler. It applies the live
// frame when previewing and captures it at pos when recording, playing and
// not scrubbing.
func (s *Session) OnFrameChange(pos int, playing, scrubbing bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.previewing {
		if err := s.applyLocked(); err != nil {
			return err
		}
	}
	if playing && !scrubbing {
		s.captureLocked(pos)
	}
	return nil
}

func (s *Session) captureLocked(pos int) {
	if s.recording {
		s.rec.Capture(pos, s.live.Load())
	}
}

// SetPreview turns the preview on or off.
func (s *Session) SetPreview(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previewing = on
}

// TogglePreview flips the preview flag and returns the new state.
func (s *Session) TogglePreview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previewing = !s.previewing
	return s.previewing
}

// Previewing reports whether preview is on.
func (s *Session) Previewing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previewing
}

// ToggleRecord flips the record flag, starting the receiver first if it is
// not running. Returns the new state.
func (s *Session) ToggleRecord() (bool, error) {
	if !s.controller.IsRunning() {
		if err := s.controller.Start(); err != nil {
			return s.Recording(), fmt.Errorf("start receiver: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = !s.recording
	slog.Info("recording toggled", "recording", s.recording, "frames", s.rec.Len())
	return s.recording, nil
}

// Recording reports whether the record toggle is on.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// RecordKey captures the live frame at pos regardless of the record toggle.
func (s *Session) RecordKey(pos int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Capture(pos, s.live.Load())
}

// Pending returns the number of captured frames waiting to be baked.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Len()
}

// Save stops recording, bakes every captured frame into sink shifted by
// the frame latency, and clears the buffer. Returns the number of samples
// written.
func (s *Session) Save(ctx context.Context, sink recording.SampleSink) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recording = false
	n, err := s.rec.Bake(ctx, s.frameLatency, &s.cal, s.neutral, s.settings.Mirror, sink)
	if err != nil {
		return 0, err
	}
	slog.Info("recording saved", "frames", n, "latency", s.frameLatency)
	return n, nil
}

// ClearRecording discards captured frames without baking.
func (s *Session) ClearRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Clear()
}

// SetNeutral captures the live frame as the neutral pose.
func (s *Session) SetNeutral() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.neutral = s.live.Load()
}

// ResetNeutral restores the all-zero neutral pose.
func (s *Session) ResetNeutral() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.neutral = frame.Zero
}

// Neutral returns the neutral pose.
func (s *Session) Neutral() frame.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.neutral
}

// UpdateSettings replaces the calibration source and recomputes the whole
// calibration table. On error the previous table stays in effect.
func (s *Session) UpdateSettings(settings retarget.Settings) error {
	settings = settings.Clone()
	cal, err := retarget.NewCalibration(settings)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.cal = cal
	return nil
}

// Settings returns a copy of the calibration source.
func (s *Session) Settings() retarget.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// ResetPose turns preview off and resets every target output to rest.
func (s *Session) ResetPose() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previewing = false
	return s.target.Apply(retarget.ZeroPose())
}

// Run drives the preview timer until ctx is cancelled. Each interval it
// runs Tick, advances the timeline one frame and captures the live frame
// there when recording. Apply errors are logged and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	interval := s.interval
	if interval <= 0 {
		return fmt.Errorf("session: preview interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Debug("session running", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("session stopping: context cancelled")
			return ctx.Err()
		case <-ticker.C:
			pos := s.timeline.Next()
			if err := s.Tick(); err != nil {
				slog.Warn("apply failed", "pos", pos, "error", err)
			}
			s.mu.Lock()
			s.captureLocked(int(pos))
			s.mu.Unlock()
		}
	}
}

// Close stops preview and recording and shuts the receiver down, waiting
// for it to release its socket.
func (s *Session) Close() error {
	s.mu.Lock()
	s.previewing = false
	s.recording = false
	s.mu.Unlock()
	return s.controller.Shutdown()
}
