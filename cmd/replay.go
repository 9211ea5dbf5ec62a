package cmd

import (
	"fmt"
	"strconv"

	"github.com/encodeous/weft/core"
	"github.com/encodeous/weft/rdb"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay [scenario]",
	Short: "Replays a scenario against an offline routing database and dumps it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadNodeConfig(nodeConfigPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("id") {
			id, _ := cmd.Flags().GetUint8("id")
			cfg.Id = rdb.RouterId(id)
		}
		sc, err := core.ReadScenario(args[0])
		if err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		r, err := core.NewLocalRouter(*cfg, cliLogger(verbose))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if trace, _ := cmd.Flags().GetBool("trace"); trace {
			r.OnEvent = func(ev core.TraceEvent) {
				fmt.Fprintln(out, ev.String())
			}
		}

		dumps, _ := cmd.Flags().GetBool("dump-each")
		for i, e := range sc.Events {
			e.Apply(r)
			if dumps {
				fmt.Fprintf(out, "--- after event %d (%s)\n%s\n", i, e.Op, r.Inspect())
			}
		}
		if !dumps {
			fmt.Fprint(out, r.Inspect())
		}
		fmt.Fprintf(out, "\nLeader cost: %s\n", costString(r.LeaderCost()))
		return nil
	},
	GroupID: "tools",
}

func costString(c rdb.Cost) string {
	if c >= rdb.MaxRouteCost {
		return "unreachable"
	}
	return strconv.Itoa(int(c))
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().Uint8("id", 0, "Router id of the replaying node, overrides the node config")
	replayCmd.Flags().BoolP("trace", "t", false, "Print every router event")
	replayCmd.Flags().BoolP("dump-each", "d", false, "Dump the database after every event")
	replayCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
}
