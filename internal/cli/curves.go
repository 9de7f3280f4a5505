package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/visage/internal/curves"
)

// CurvesOptions holds flags for the curves command.
type CurvesOptions struct {
	*RootOptions
	Database string
	Take     string
	Points   bool
}

// CurveSummary describes one curve of a take.
type CurveSummary struct {
	Key      string         `json:"key"`
	Group    string         `json:"group"`
	Selected bool           `json:"selected"`
	Count    int            `json:"count"`
	Start    float64        `json:"start"`
	End      float64        `json:"end"`
	Points   []curves.Point `json:"points,omitempty"`
}

// CurvesResult is the curve listing for one take.
type CurvesResult struct {
	Take   string         `json:"take"`
	Curves []CurveSummary `json:"curves"`
}

func (r CurvesResult) String() string {
	var b strings.Builder
	if len(r.Curves) == 0 {
		fmt.Fprintf(&b, "Take %q has no curves.", r.Take)
		return b.String()
	}
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CURVE\tGROUP\tSEL\tKEYS\tRANGE")
	for _, c := range r.Curves {
		sel := ""
		if c.Selected {
			sel = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%g..%g\n", c.Key, c.Group, sel, c.Count, c.Start, c.End)
		for _, p := range c.Points {
			fmt.Fprintf(tw, "\t\t\t%g\t%.6f\n", p.Time, p.Value)
		}
	}
	_ = tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// summarize builds the listing rows for cs.
func summarize(cs []*curves.Curve, withPoints bool) []CurveSummary {
	rows := make([]CurveSummary, 0, len(cs))
	for _, c := range cs {
		row := CurveSummary{
			Key:      c.Key(),
			Group:    c.Group,
			Selected: c.Selected,
			Count:    len(c.Points),
		}
		if n := len(c.Points); n > 0 {
			row.Start = c.Points[0].Time
			row.End = c.Points[n-1].Time
		}
		if withPoints {
			row.Points = c.Points
		}
		rows = append(rows, row)
	}
	return rows
}

// NewCurvesCommand creates the curves command.
func NewCurvesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CurvesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "curves",
		Short: "Show the curves of a take",
		Long: `List every curve recorded in a take with its group, selection flag,
keyframe count and time range. --points includes every keyframe.

Example:
  visage curves --db takes.db --take scene1
  visage curves --db takes.db --take scene1 --points --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCurves(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Take, "take", "", "take name (required)")
	cmd.Flags().BoolVar(&opts.Points, "points", false, "include keyframes")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("take")

	return cmd
}

func runCurves(opts *CurvesOptions, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts.RootOptions)
	ctx := commandContext(cmd)

	st, take, err := openTake(ctx, opts.Database, opts.Take)
	if err != nil {
		return out.Report(storeCode(err), err)
	}
	defer closeStore(st)

	cs, err := st.LoadCurves(ctx, take.ID)
	if err != nil {
		return out.Fail(ExitFailure, CodeStore, "failed to load curves", err)
	}
	return out.Success(CurvesResult{Take: take.Name, Curves: summarize(cs, opts.Points)})
}
