package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/encodeous/weft/rdb"
	"github.com/spf13/cobra"
)

var qualityCmd = &cobra.Command{
	Use:   "quality [margin dB]...",
	Short: "Shows the link quality and cost for link margins",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MARGIN\tQUALITY\tCOST\tFLOOR\t")
		for _, a := range args {
			m, err := strconv.ParseUint(a, 10, 16)
			if err != nil {
				return fmt.Errorf("invalid margin %q: %w", a, err)
			}
			margin := uint16(m)
			q := rdb.QualityBucket(margin)
			fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t\n", margin, q, costString(rdb.LinkCost(q)), rdb.LowerBound(margin))
		}
		return tw.Flush()
	},
	GroupID: "tools",
}

func init() {
	rootCmd.AddCommand(qualityCmd)
}
