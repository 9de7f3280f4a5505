package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/visage/internal/config"
	"github.com/roach88/visage/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the visage CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "visage",
		Short: "Live face capture to animation curves",
		Long: `Receive 52-channel facial capture frames over UDP, retarget them onto a
character, record them as keyframed curves and clean the curves up.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSendCommand(opts))
	cmd.AddCommand(NewTakesCommand(opts))
	cmd.AddCommand(NewCurvesCommand(opts))
	cmd.AddCommand(NewDestutterCommand(opts))
	cmd.AddCommand(NewSmoothCommand(opts))
	cmd.AddCommand(NewChannelsCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// setupLogging installs a stderr text handler, at debug level when verbose.
func setupLogging(opts *RootOptions) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadConfig loads path, or returns the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// openTake opens the database and resolves a take by name. The caller
// closes the returned store.
func openTake(ctx context.Context, dbPath, name string) (*store.Store, store.Take, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, store.Take{}, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	take, err := st.TakeByName(ctx, name)
	if err != nil {
		_ = st.Close()
		if errors.Is(err, store.ErrTakeNotFound) {
			return nil, store.Take{}, WrapExitError(ExitCommandError, fmt.Sprintf("take %q not found", name), err)
		}
		return nil, store.Take{}, WrapExitError(ExitCommandError, "failed to read take", err)
	}
	return st, take, nil
}

// storeCode maps an openTake error to its JSON error code.
func storeCode(err error) string {
	if errors.Is(err, store.ErrTakeNotFound) {
		return CodeTake
	}
	return CodeStore
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
