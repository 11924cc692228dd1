package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/korinsic/surveillance-core/internal/cliaudit"
	"github.com/korinsic/surveillance-core/pkg/surveillance"
)

var (
	simulateTraderID   string
	simulateInstrument string
	simulateAnalyze    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario_type>",
	Short: "Generate a synthetic evidence batch (scenario_a..scenario_e, or a typology name)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := surveillance.Simulate(surveillance.ScenarioType(args[0]), surveillance.SimulateParams{
			TraderID:   simulateTraderID,
			Instrument: simulateInstrument,
		})
		if err != nil {
			return err
		}

		if !simulateAnalyze {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(batch)
		}

		engine, err := buildEngine()
		if err != nil {
			return err
		}
		result, err := engine.Analyze(context.Background(), batch, surveillance.Options{IncludeRationale: true})
		if err != nil {
			return err
		}
		for typology := range result.RiskScores {
			cliaudit.RecordAnalysis(result.AnalysisID, typology, batch.TraderInfo.ID,
				fmt.Sprintf("%d alerts", len(result.Alerts)))
		}
		return printResult(cmd, result)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateTraderID, "trader-id", "", "trader identifier for the generated batch")
	simulateCmd.Flags().StringVar(&simulateInstrument, "instrument", "", "instrument for the generated batch")
	simulateCmd.Flags().BoolVar(&simulateAnalyze, "analyze", false, "run the batch through Analyze instead of printing it")
}
