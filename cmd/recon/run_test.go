// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jcenglish/recon/internal/history"
	"github.com/jcenglish/recon/pkg/types"
)

const sampleLedger = `D0-POS
AAPL 100
GOOG 200
SP500 175.75
Cash 1000

D1-TRN
AAPL SELL 100 30000
GOOG BUY 10 10000
Cash DEPOSIT 0 1000
Cash FEE 0 50
GOOG DIVIDEND 0 50
TD BUY 100 10000

D1-POS
GOOG 220
SP500 175.75
Cash 20000
MSFT 10
`

// execute runs the CLI with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommandWritesBreakReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "recon.in")
	output := filepath.Join(dir, "recon.out")
	historyDir := filepath.Join(dir, ".recon")

	if err := os.WriteFile(input, []byte(sampleLedger), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run",
		"--input", input, "--output", output, "--history-dir", historyDir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	want := "Cash 8000\nGOOG 10\nMSFT 10\nTD -100\n"
	if string(data) != want {
		t.Errorf("recon.out = %q, want %q", data, want)
	}

	if !strings.Contains(out, "found 4 break(s)") {
		t.Errorf("output missing break count: %q", out)
	}
	if !strings.Contains(out, "archived as run") {
		t.Errorf("output missing archive line: %q", out)
	}

	// The run is queryable from the archive.
	store, err := history.NewStore(types.HistoryConfig{Dir: historyDir})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	runs, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("archived %d run(s), want 1", len(runs))
	}
	if runs[0].Summary.Breaks != 4 || runs[0].Summary.Transactions != 6 {
		t.Errorf("archived summary = %+v, want 4 breaks, 6 transactions", runs[0].Summary)
	}
}

func TestRunCommandNoHistory(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "recon.in")
	output := filepath.Join(dir, "recon.out")
	historyDir := filepath.Join(dir, ".recon")

	if err := os.WriteFile(input, []byte(sampleLedger), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "run",
		"--input", input, "--output", output, "--history-dir", historyDir, "--no-history")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := os.ReadFile(output); err != nil {
		t.Errorf("recon.out not written: %v", err)
	}
	if _, err := os.Stat(historyDir); !os.IsNotExist(err) {
		t.Errorf("--no-history created %s", historyDir)
	}
}

func TestRunCommandMissingInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "recon.in")
	output := filepath.Join(dir, "recon.out")

	_, err := execute(t, "run",
		"--input", input, "--output", output, "--no-history")
	if err == nil {
		t.Fatal("run succeeded with no input file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error %q does not name the missing input", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("failed run produced recon.out")
	}
}
