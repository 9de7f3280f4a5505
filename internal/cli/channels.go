package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/visage/internal/frame"
)

// ChannelInfo describes one weight channel.
type ChannelInfo struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Side        string `json:"side"`
	Counterpart string `json:"counterpart,omitempty"`
}

// channelTable lists every weight channel in frame order.
func channelTable() []ChannelInfo {
	rows := make([]ChannelInfo, 0, frame.WeightCount)
	for i, name := range frame.Names {
		row := ChannelInfo{
			Index: i,
			Name:  name,
			Group: frame.GroupOf(i).String(),
			Side:  frame.SideOf(i).String(),
		}
		if c := frame.Counterpart(i); c >= 0 {
			row.Counterpart = frame.Names[c]
		}
		rows = append(rows, row)
	}
	return rows
}

// NewChannelsCommand creates the channels command.
func NewChannelsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Print the blendshape channel schedule",
		Long: `Print the 52 weight channels in frame order with their group and mirror
counterpart. Calibration bias, scale and channel flags are indexed by this
order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			if out.IsJSON() {
				return out.Success(channelTable())
			}
			return frame.WriteSchedule(cmd.OutOrStdout())
		},
	}
	return cmd
}
