package cliaudit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		name        string
		globalValue bool
		want        bool
	}{
		{"enabled via env", true, true},
		{"disabled when unset", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled := enabled
			defer func() { enabled = oldEnabled }()

			enabled = tt.globalValue

			if got := Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetVerboseOverridesEnabled(t *testing.T) {
	oldEnabled, oldVerbose := enabled, verboseMode
	defer func() { enabled, verboseMode = oldEnabled, oldVerbose }()

	enabled = false
	SetVerbose(true)
	if !Enabled() {
		t.Error("Enabled() = false after SetVerbose(true), want true")
	}
	SetVerbose(false)
}

func TestQuietMode(t *testing.T) {
	oldQuiet := quietMode
	defer func() { quietMode = oldQuiet }()

	SetQuiet(true)
	if !IsQuiet() {
		t.Error("IsQuiet() = false after SetQuiet(true), want true")
	}
	SetQuiet(false)
	if IsQuiet() {
		t.Error("IsQuiet() = true after SetQuiet(false), want false")
	}
}

func TestRecordAnalysis_writesWithinProject(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".korinsic"), 0755); err != nil {
		t.Fatal(err)
	}

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWD)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	RecordAnalysis("analysis-1", "insider_dealing", "trader-1", "2 alerts")

	data, err := os.ReadFile(filepath.Join(dir, ".korinsic", "audit.log"))
	if err != nil {
		t.Fatalf("expected audit.log to be written, got error: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty audit.log")
	}
}

func TestRecordAnalysis_silentOutsideProject(t *testing.T) {
	dir := t.TempDir()

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWD)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	RecordAnalysis("analysis-2", "spoofing", "trader-2", "0 alerts")

	if _, err := os.Stat(filepath.Join(dir, ".korinsic")); err == nil {
		t.Error("expected no .korinsic directory to be created outside a project")
	}
}
