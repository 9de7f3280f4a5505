package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/visage/internal/store"
)

// TakesOptions holds flags for the takes command.
type TakesOptions struct {
	*RootOptions
	Database string
	Delete   string
}

// TakesResult is the takes listing.
type TakesResult struct {
	Takes   []store.Take `json:"takes"`
	Deleted string       `json:"deleted,omitempty"`
}

func (r TakesResult) String() string {
	var b strings.Builder
	if r.Deleted != "" {
		fmt.Fprintf(&b, "Deleted take %q\n", r.Deleted)
	}
	if len(r.Takes) == 0 {
		b.WriteString("No takes recorded.")
		return b.String()
	}
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLATENCY\tCURVES\tKEYS\tID")
	for _, t := range r.Takes {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", t.Name, t.FrameLatency, t.Curves, t.Keyframes, t.ID)
	}
	_ = tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// NewTakesCommand creates the takes command.
func NewTakesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TakesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "takes",
		Short: "List or delete recorded takes",
		Long: `List every take in the database in recording order, with its frame
latency and curve and keyframe counts.

Example:
  visage takes --db takes.db
  visage takes --db takes.db --delete scene1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTakes(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Delete, "delete", "", "delete the named take before listing")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTakes(opts *TakesOptions, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts.RootOptions)
	ctx := commandContext(cmd)

	result := TakesResult{}
	if opts.Delete != "" {
		st, take, err := openTake(ctx, opts.Database, opts.Delete)
		if err != nil {
			return out.Report(storeCode(err), err)
		}
		err = st.DeleteTake(ctx, take.ID)
		closeStore(st)
		if err != nil {
			return out.Fail(ExitFailure, CodeStore, "failed to delete take", err)
		}
		out.VerboseLog("deleted take %s (%s)", take.Name, take.ID)
		result.Deleted = take.Name
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return out.Fail(ExitCommandError, CodeStore, "failed to open database", err)
	}
	defer closeStore(st)

	result.Takes, err = st.ListTakes(ctx)
	if err != nil {
		return out.Fail(ExitFailure, CodeStore, "failed to list takes", err)
	}
	return out.Success(result)
}
