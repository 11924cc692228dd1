package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korinsic/surveillance-core/pkg/evidence"
)

func TestSimulateCommand_printsBatchJSON(t *testing.T) {
	simulateTraderID = "trader-cli-1"
	simulateInstrument = "ACME"
	simulateAnalyze = false
	defer func() { simulateTraderID, simulateInstrument = "", "" }()

	var out bytes.Buffer
	simulateCmd.SetOut(&out)
	simulateCmd.SetArgs([]string{"scenario_a"})
	require.NoError(t, simulateCmd.RunE(simulateCmd, []string{"scenario_a"}))

	var batch evidence.Batch
	require.NoError(t, json.Unmarshal(out.Bytes(), &batch))
	assert.Equal(t, "trader-cli-1", batch.TraderInfo.ID)
	assert.NotEmpty(t, batch.Trades)
}

func TestSimulateCommand_unknownScenarioErrors(t *testing.T) {
	simulateAnalyze = false
	_, err := simulateCmdRunBatch(t, "not_a_real_scenario")
	assert.Error(t, err)
}

func simulateCmdRunBatch(t *testing.T, scenario string) (evidence.Batch, error) {
	t.Helper()
	var out bytes.Buffer
	simulateCmd.SetOut(&out)
	err := simulateCmd.RunE(simulateCmd, []string{scenario})
	if err != nil {
		return evidence.Batch{}, err
	}
	var batch evidence.Batch
	if uerr := json.Unmarshal(out.Bytes(), &batch); uerr != nil {
		return evidence.Batch{}, uerr
	}
	return batch, nil
}
