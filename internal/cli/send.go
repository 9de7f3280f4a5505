package cli

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/spf13/cobra"

	"github.com/roach88/visage/internal/frame"
	"github.com/roach88/visage/internal/receiver"
)

// SendOptions holds flags for the send command.
type SendOptions struct {
	*RootOptions
	Host  string
	Port  int
	Rate  float64
	Count int
}

// SendResult reports how many frames were sent.
type SendResult struct {
	Addr string `json:"addr"`
	Sent int    `json:"sent"`
}

func (r SendResult) String() string {
	return fmt.Sprintf("Sent %d frames to %s", r.Sent, r.Addr)
}

// NewSendCommand creates the send command.
func NewSendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send synthetic capture frames to a receiver",
		Long: `Send a stream of synthetic capture frames over UDP in the capture app's
OSC format. Each weight channel follows a phase-shifted sine wave and the
head turns slowly from side to side. Useful for exercising serve without a
capture device.

Example:
  visage send --port 8000 --rate 60 --count 600`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "127.0.0.1", "receiver host")
	cmd.Flags().IntVar(&opts.Port, "port", 8000, "receiver port")
	cmd.Flags().Float64Var(&opts.Rate, "rate", 60, "frames per second")
	cmd.Flags().IntVar(&opts.Count, "count", 60, "number of frames to send (0 sends until interrupted)")

	return cmd
}

func runSend(opts *SendOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions)
	out := newFormatter(cmd, opts.RootOptions)

	if opts.Rate <= 0 {
		return out.Report(CodeConfig, NewExitError(ExitCommandError, fmt.Sprintf("--rate must be positive, got %g", opts.Rate)))
	}
	if opts.Count < 0 {
		return out.Report(CodeConfig, NewExitError(ExitCommandError, fmt.Sprintf("--count must not be negative, got %d", opts.Count)))
	}

	client := osc.NewClient(opts.Host, opts.Port)
	interval := time.Duration(float64(time.Second) / opts.Rate)
	addr := receiver.JoinAddr(opts.Host, opts.Port)

	ctx := commandContext(cmd)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sent := 0
	for opts.Count == 0 || sent < opts.Count {
		if err := client.Send(receiver.NewMessage(syntheticFrame(sent, opts.Rate))); err != nil {
			return out.Fail(ExitFailure, CodeReceiver, "failed to send frame", err)
		}
		sent++
		slog.Debug("frame sent", "addr", addr, "n", sent)
		if sent == opts.Count {
			break
		}

		select {
		case <-ctx.Done():
			return out.Success(SendResult{Addr: addr, Sent: sent})
		case <-ticker.C:
		}
	}

	return out.Success(SendResult{Addr: addr, Sent: sent})
}

// syntheticFrame is frame n of a one-second sine cycle at rate frames per
// second. Weights stay in [0, 1]; the head yaws within ±15 degrees.
func syntheticFrame(n int, rate float64) frame.Frame {
	var f frame.Frame
	phase := 2 * math.Pi * float64(n) / rate
	for i := 0; i < frame.WeightCount; i++ {
		offset := 2 * math.Pi * float64(i) / frame.WeightCount
		f[i] = 0.5 + 0.5*math.Sin(phase+offset)
	}
	f[frame.HeadRotation+1] = 15 * math.Sin(phase/4)
	f[frame.EyeLeftRotation] = 5 * math.Sin(phase)
	f[frame.EyeRightRotation] = 5 * math.Sin(phase)
	return f
}
