package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/visage/internal/curves"
	"github.com/roach88/visage/internal/frame"
)

// FilterResult reports one filter run over a take.
type FilterResult struct {
	Take    string `json:"take"`
	Filter  string `json:"filter"`
	Curves  int    `json:"curves"`
	Removed int    `json:"removed,omitempty"`
}

func (r FilterResult) String() string {
	if r.Filter == "destutter" {
		return fmt.Sprintf("Destutter on %q: removed %d timepoints across %d curves", r.Take, r.Removed, r.Curves)
	}
	return fmt.Sprintf("Smooth on %q: %d curves", r.Take, r.Curves)
}

// DestutterOptions holds flags for the destutter command.
type DestutterOptions struct {
	*RootOptions
	Database string
	Take     string
}

// NewDestutterCommand creates the destutter command.
func NewDestutterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DestutterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "destutter",
		Short: "Remove repeated keyframes from a take",
		Long: `Remove every timepoint at which no curve of the take changed value since
the previous kept timepoint. Receivers that publish slower than the
timeline records produce these held frames.

Example:
  visage destutter --db takes.db --take scene1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDestutter(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Take, "take", "", "take name (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("take")

	return cmd
}

func runDestutter(opts *DestutterOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions)
	out := newFormatter(cmd, opts.RootOptions)
	ctx := commandContext(cmd)

	st, take, err := openTake(ctx, opts.Database, opts.Take)
	if err != nil {
		return out.Report(storeCode(err), err)
	}
	defer closeStore(st)

	sink := st.CurveSet(take)
	removed, err := curves.DestutterSink(ctx, sink)
	if err != nil {
		return out.Fail(ExitFailure, CodeStore, "destutter failed", err)
	}
	out.VerboseLog("removed %d timepoints from %s", removed, take.Name)

	return out.Success(FilterResult{Take: take.Name, Filter: "destutter", Curves: take.Curves, Removed: removed})
}

// SmoothOptions holds flags for the smooth command.
type SmoothOptions struct {
	*RootOptions
	Database     string
	Take         string
	Config       string
	Samples      int
	Falloff      string
	Bias         float64
	Scale        float64
	SelectedOnly bool
	Groups       []string
}

// NewSmoothCommand creates the smooth command.
func NewSmoothCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SmoothOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "smooth",
		Short: "Smooth the curves of a take",
		Long: `Replace every keyframe with a falloff-weighted blend of itself and the
average of its neighbours. Filter settings come from --config and may be
overridden by flags. --group selects the curves of the named blendshape
groups before filtering and implies --selected-only.

Falloffs: UNIFORM, LINEAR, SQUARE, SQUARE_INVERSE, SMOOTH, SMOOTH_X2

Example:
  visage smooth --db takes.db --take scene1 --samples 2
  visage smooth --db takes.db --take scene1 --group mouth --group jaw`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmooth(opts, cmd)
		},
	}

	def := curves.DefaultSmoothOptions()
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Take, "take", "", "take name (required)")
	cmd.Flags().StringVar(&opts.Config, "config", "", "session config supplying filter defaults")
	cmd.Flags().IntVar(&opts.Samples, "samples", def.Samples, "half-window radius in keyframes")
	cmd.Flags().StringVar(&opts.Falloff, "falloff", def.Falloff.String(), "falloff curve")
	cmd.Flags().Float64Var(&opts.Bias, "bias", def.Bias, "falloff input bias")
	cmd.Flags().Float64Var(&opts.Scale, "scale", def.Scale, "falloff input scale")
	cmd.Flags().BoolVar(&opts.SelectedOnly, "selected-only", def.SelectedOnly, "only smooth selected curves")
	cmd.Flags().StringSliceVar(&opts.Groups, "group", nil, "select curves of this group (repeatable)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("take")

	return cmd
}

func runSmooth(opts *SmoothOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions)
	out := newFormatter(cmd, opts.RootOptions)
	ctx := commandContext(cmd)

	filter, err := smoothOptions(opts, cmd)
	if err != nil {
		return out.Fail(ExitCommandError, CodeFilter, "invalid filter options", err)
	}

	groups, err := groupLabels(opts.Groups)
	if err != nil {
		return out.Fail(ExitCommandError, CodeFilter, "invalid --group", err)
	}

	st, take, err := openTake(ctx, opts.Database, opts.Take)
	if err != nil {
		return out.Report(storeCode(err), err)
	}
	defer closeStore(st)

	if len(groups) > 0 {
		if err := st.SelectGroups(ctx, take.ID, groups...); err != nil {
			return out.Fail(ExitFailure, CodeStore, "failed to select groups", err)
		}
		filter.SelectedOnly = true
	}
	out.VerboseLog("smoothing %s: samples=%d falloff=%s bias=%g scale=%g selected-only=%t",
		take.Name, filter.Samples, filter.Falloff, filter.Bias, filter.Scale, filter.SelectedOnly)

	if err := curves.SmoothSink(ctx, st.CurveSet(take), filter); err != nil {
		return out.Fail(ExitFailure, CodeStore, "smooth failed", err)
	}
	return out.Success(FilterResult{Take: take.Name, Filter: "smooth", Curves: take.Curves})
}

// smoothOptions starts from the config's filter section (or the defaults)
// and applies every flag the user set explicitly.
func smoothOptions(opts *SmoothOptions, cmd *cobra.Command) (curves.SmoothOptions, error) {
	filter := curves.DefaultSmoothOptions()
	if opts.Config != "" {
		cfg, err := loadConfig(opts.Config)
		if err != nil {
			return filter, err
		}
		if filter, err = cfg.SmoothOptions(); err != nil {
			return filter, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("samples") {
		filter.Samples = opts.Samples
	}
	if flags.Changed("falloff") {
		f, err := curves.ParseFalloff(opts.Falloff)
		if err != nil {
			return filter, err
		}
		filter.Falloff = f
	}
	if flags.Changed("bias") {
		filter.Bias = opts.Bias
	}
	if flags.Changed("scale") {
		filter.Scale = opts.Scale
	}
	if flags.Changed("selected-only") {
		filter.SelectedOnly = opts.SelectedOnly
	}
	return filter, filter.Validate()
}

// groupLabels resolves group names to the labels curves are stored under.
func groupLabels(names []string) ([]string, error) {
	labels := make([]string, 0, len(names))
	for _, n := range names {
		g, ok := frame.ParseGroup(strings.ToLower(strings.TrimSpace(n)))
		if !ok {
			return nil, fmt.Errorf("unknown group %q", n)
		}
		labels = append(labels, g.Label())
	}
	return labels, nil
}
