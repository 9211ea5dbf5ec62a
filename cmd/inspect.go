package cmd

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:     "inspect [metrics addr]",
	Aliases: []string{"i"},
	Short:   "Inspects the routing database of a running node",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := ""
		if len(args) == 1 {
			addr = args[0]
		} else {
			cfg, err := loadNodeConfig(nodeConfigPath)
			if err != nil {
				return err
			}
			addr = cfg.MetricsAddr
		}
		if addr == "" {
			return fmt.Errorf("no metrics_addr in %s, pass the address of the node", nodeConfigPath)
		}
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get(fmt.Sprintf("http://%s/debug/rdb", addr))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("node returned %s", resp.Status)
		}
		_, err = io.Copy(cmd.OutOrStdout(), resp.Body)
		return err
	},
	GroupID: "ny",
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
