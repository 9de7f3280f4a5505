package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/visage/internal/config"
	"github.com/roach88/visage/internal/retarget"
	"github.com/roach88/visage/internal/session"
	"github.com/roach88/visage/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Config   string
	Database string
	Take     string
	Host     string
	Port     int
	Record   bool
	Stream   bool
	Duration time.Duration
}

// ServeResult summarizes one serve run.
type ServeResult struct {
	Addr     string `json:"addr"`
	Applied  int    `json:"applied"`
	Received uint64 `json:"received"`
	Dropped  uint64 `json:"dropped"`
	Take     string `json:"take,omitempty"`
	Baked    int    `json:"baked"`
}

func (r ServeResult) String() string {
	s := fmt.Sprintf("Receiver %s: %d frames received, %d dropped, %d poses applied",
		r.Addr, r.Received, r.Dropped, r.Applied)
	if r.Take != "" {
		s += fmt.Sprintf("\nBaked %d frames into take %q", r.Baked, r.Take)
	}
	return s
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Receive capture frames and preview or record them",
		Long: `Start the UDP receiver and drive the preview loop.

Every preview tick retargets the latest frame. With --stream each pose is
written to stdout as one JSON line. With --record every tick is captured and,
on shutdown, baked into the named take shifted by the configured frame
latency.

Example:
  visage serve --config session.yaml --stream
  visage serve --db takes.db --take scene1 --record --duration 30s`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "session config (.yaml, .json or .cue)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database for recorded takes")
	cmd.Flags().StringVar(&opts.Take, "take", "take", "take name to bake into")
	cmd.Flags().StringVar(&opts.Host, "host", "", "override receiver host")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "override receiver port")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "record frames and bake them on exit (requires --db)")
	cmd.Flags().BoolVar(&opts.Stream, "stream", false, "write each applied pose to stdout as JSON")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "stop after this long (0 runs until interrupted)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions)
	out := newFormatter(cmd, opts.RootOptions)

	if opts.Record && opts.Database == "" {
		return out.Report(CodeConfig, NewExitError(ExitCommandError, "--record requires --db"))
	}

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return out.Fail(ExitCommandError, CodeConfig, "failed to load config", err)
	}
	if opts.Host != "" {
		cfg.Receiver.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Receiver.Port = opts.Port
	}
	slog.Debug("config loaded", "config", cfg.String())

	target := &poseCounter{}
	if opts.Stream {
		target = newStreamTarget(cmd.OutOrStdout())
	}

	sess, err := session.New(cfg, target)
	if err != nil {
		return out.Fail(ExitCommandError, CodeConfig, "invalid calibration", err)
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	if opts.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := sess.StartReceiver(); err != nil {
		return out.Fail(ExitFailure, CodeReceiver, "failed to start receiver", err)
	}
	sess.SetPreview(true)
	if opts.Record {
		if _, err := sess.ToggleRecord(); err != nil {
			_ = sess.Close()
			return out.Fail(ExitFailure, CodeReceiver, "failed to start recording", err)
		}
	}

	slog.Info("receiver listening", "addr", cfg.Addr(), "record", opts.Record)
	if !opts.Stream {
		out.VerboseLog("Listening on %s. Press Ctrl-C to stop.", cfg.Addr())
	}

	runErr := sess.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		_ = sess.Close()
		return out.Fail(ExitFailure, CodeReceiver, "preview loop failed", runErr)
	}

	result := ServeResult{Addr: cfg.Addr(), Applied: target.Count()}
	if w := sess.Controller().Worker(); w != nil {
		stats := w.Stats()
		result.Received = stats.Received
		result.Dropped = stats.Dropped
		if addr := w.BoundAddr(); addr != "" {
			result.Addr = addr
		}
	}

	if opts.Record {
		baked, err := bakeTake(opts, cfg, sess)
		if err != nil {
			_ = sess.Close()
			return out.Fail(ExitFailure, CodeStore, "failed to save recording", err)
		}
		result.Take = opts.Take
		result.Baked = baked
	}

	if err := sess.Close(); err != nil {
		slog.Warn("receiver did not stop cleanly", "error", err)
	}
	slog.Info("serve stopped", "applied", result.Applied, "received", result.Received)

	if opts.Stream && !out.IsJSON() {
		return nil
	}
	return out.Success(result)
}

// bakeTake writes the session's recording into the configured take.
func bakeTake(opts *ServeOptions, cfg *config.Config, sess *session.Session) (int, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return 0, err
	}
	defer closeStore(st)

	ctx := context.Background()
	take, err := st.EnsureTake(ctx, opts.Take, cfg.FrameLatency)
	if err != nil {
		return 0, err
	}
	return sess.Save(ctx, st.TakeWriter(take, cfg.Target))
}

// poseCounter is the serve pose target. It counts applies and optionally
// streams each pose as a JSON line.
type poseCounter struct {
	mu    sync.Mutex
	enc   *json.Encoder
	count int
}

var _ session.PoseTarget = (*poseCounter)(nil)

func (p *poseCounter) Apply(pose retarget.PoseParameters) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	if p.enc == nil {
		return nil
	}
	return p.enc.Encode(pose)
}

func (p *poseCounter) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// newStreamTarget returns a target that writes one JSON pose per line to w.
func newStreamTarget(w io.Writer) *poseCounter {
	return &poseCounter{enc: json.NewEncoder(w)}
}
