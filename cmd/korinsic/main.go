// Command korinsic is the CLI front end for the surveillance core: it loads
// the three configuration documents once at startup, builds one Engine, and
// dispatches analyze/simulate requests against it (spec.md §6, §9).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/korinsic/surveillance-core/internal/cliaudit"
)

// Version is set at build time via -ldflags; dev is the fallback for local builds.
var Version = "dev"

var (
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool
	configDir   string
)

var rootCmd = &cobra.Command{
	Use:   "korinsic",
	Short: "korinsic - Bayesian market-abuse surveillance core",
	Long:  `Infers typology risk from trading/order evidence via configured Bayesian networks, scores data quality, and emits explainable alerts.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("korinsic version %s\n", Version)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cliaudit.SetVerbose(verboseFlag)
		cliaudit.SetQuiet(quietFlag)
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "directory containing bayesian_models.yaml, probability_config.yaml, dqsi_config.yaml")
	rootCmd.Flags().BoolP("version", "V", false, "print version information")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(simulateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
