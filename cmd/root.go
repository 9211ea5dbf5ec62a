package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

const DefaultNodeConfigPath = "node.yaml"

var nodeConfigPath = DefaultNodeConfigPath

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "Weft Mesh Routing CLI",
	Long: `Weft keeps the routing database of a mesh router: the routers in the partition,
the links to its neighbours and the best route to every other router.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "init",
		Title: "Initialize Weft",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "ny",
		Title: "Weft Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "tools",
		Title: "Offline Tools",
	})
	rootCmd.PersistentFlags().StringVarP(&nodeConfigPath, "node-config", "n", nodeConfigPath, "node-specific config")
}
