package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/korinsic/surveillance-core/internal/cliaudit"
	"github.com/korinsic/surveillance-core/pkg/evidence"
	"github.com/korinsic/surveillance-core/pkg/surveillance"
)

var (
	analyzeTypologies       string
	analyzeUseLatentIntent  bool
	analyzeGrouped          bool
	analyzeIncludeRationale bool
	analyzeDQSIRole         string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <batch.json>",
	Short: "Run the inference/risk/DQSI/explain pipeline over one evidence batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading batch file: %w", err)
		}

		var batch evidence.Batch
		if err := json.Unmarshal(data, &batch); err != nil {
			return fmt.Errorf("parsing batch file: %w", err)
		}

		engine, err := buildEngine()
		if err != nil {
			return err
		}

		opts := surveillance.Options{
			UseLatentIntent:  analyzeUseLatentIntent,
			Grouped:          analyzeGrouped,
			IncludeRationale: analyzeIncludeRationale,
			DQSIRole:         analyzeDQSIRole,
		}
		if analyzeTypologies != "" {
			opts.Typologies = strings.Split(analyzeTypologies, ",")
		}

		result, err := engine.Analyze(context.Background(), batch, opts)
		if err != nil {
			return err
		}

		typologies := opts.Typologies
		if len(typologies) == 0 {
			for typology := range result.RiskScores {
				typologies = append(typologies, typology)
			}
		}
		for _, typology := range typologies {
			cliaudit.RecordAnalysis(result.AnalysisID, typology, batch.TraderInfo.ID,
				fmt.Sprintf("%d alerts", len(result.Alerts)))
		}

		return printResult(cmd, result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTypologies, "typologies", "", "comma-separated typology names (default: all registered)")
	analyzeCmd.Flags().BoolVar(&analyzeUseLatentIntent, "latent-intent", false, "use each typology's latent-intent structural variant where declared")
	analyzeCmd.Flags().BoolVar(&analyzeGrouped, "grouped", false, "use the fan-in-reducing grouped build where declared")
	analyzeCmd.Flags().BoolVar(&analyzeIncludeRationale, "rationale", true, "include the full explanation narrative on emitted alerts")
	analyzeCmd.Flags().StringVar(&analyzeDQSIRole, "dqsi-role", "", "role profile for role-aware DQSI scoring (default: fallback strategy)")
}

func printResult(cmd *cobra.Command, result *surveillance.Result) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	cliaudit.PrintlnNormal(fmt.Sprintf("analysis %s", result.AnalysisID))
	for typology, score := range result.RiskScores {
		cliaudit.PrintlnNormal(fmt.Sprintf("  %-24s overall=%.3f esi=%s(%.2f)",
			typology, score.Overall, score.ESI.ESIBadge, score.ESI.EvidenceSufficiencyIndex))
	}
	cliaudit.PrintlnNormal(fmt.Sprintf("  dqsi: score=%.3f trust=%s confidence=%.2f",
		result.DQSI.Overall, result.DQSI.TrustBucket, result.DQSI.ConfidenceIndex))
	for typology, reason := range result.DisabledTypologies {
		cliaudit.PrintlnNormal(fmt.Sprintf("  disabled %s: %s", typology, reason))
	}
	cliaudit.PrintlnNormal(fmt.Sprintf("  alerts: %d", len(result.Alerts)))
	for _, rec := range result.Alerts {
		cliaudit.PrintlnNormal(fmt.Sprintf("    [%s] %s severity=%s probability=%.3f",
			rec.Alert.ID, rec.Alert.Typology, rec.Alert.Severity, rec.Alert.Probability))
	}
	return nil
}
