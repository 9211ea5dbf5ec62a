package cmd

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"

	"github.com/encodeous/weft/rdb"
	"github.com/encodeous/weft/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [router id]",
	Short: "Create a node configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid router id %q: %w", args[0], err)
		}
		prefix, err := netip.ParsePrefix(cmd.Flag("prefix").Value.String())
		if err != nil {
			return err
		}
		linkAge, _ := cmd.Flags().GetDuration("link-age")

		nodeCfg := state.NodeCfg{
			Id:              rdb.RouterId(id),
			LinkAge:         linkAge,
			MetricsAddr:     cmd.Flag("metrics").Value.String(),
			MeshLocalPrefix: prefix,
		}
		nodeCfg.ApplyDefaults()
		if err := state.NodeConfigValidator(&nodeCfg); err != nil {
			return err
		}

		ncfg, err := yaml.Marshal(&nodeCfg)
		if err != nil {
			return err
		}

		outPath := cmd.Flag("output").Value.String()
		if _, err := os.Stat(outPath); err == nil {
			if force, _ := cmd.Flags().GetBool("force"); !force {
				return fmt.Errorf("%s already exists, pass --force to overwrite it", outPath)
			}
		}
		return os.WriteFile(outPath, ncfg, 0600)
	},
	GroupID: "init",
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringP("output", "o", DefaultNodeConfigPath, "Path to write the node config to")
	newCmd.Flags().StringP("metrics", "m", "", "ip:port to serve metrics and the database dump on")
	newCmd.Flags().String("prefix", state.DefaultMeshLocalPrefix.String(), "Mesh-local /64 prefix")
	newCmd.Flags().Duration("link-age", state.DefaultLinkAge, "Lifetime of a link that is not observed again")
	newCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config")
}
