package cmd

import (
	"fmt"

	"github.com/encodeous/weft/core"
	"github.com/encodeous/weft/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Checks the node config and the scenario it refers to",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := core.ReadNodeConfig(nodeConfigPath)
		if err != nil {
			return err
		}
		if err := state.NodeConfigValidator(cfg); err != nil {
			return err
		}
		if cfg.Scenario != "" {
			sc, err := core.ReadScenario(cfg.Scenario)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", cfg.Scenario, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scenario has %d events\n", len(sc.Events))
		}

		cfgYaml, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Config is valid")
		fmt.Fprint(cmd.OutOrStdout(), string(cfgYaml))
		return nil
	},
	GroupID: "init",
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
