// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jcenglish/recon/internal/history"
	"github.com/jcenglish/recon/internal/ledger"
	"github.com/jcenglish/recon/internal/recon"
	"github.com/jcenglish/recon/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile the ledger and write the break report",
	Long: `Run reads the input ledger, rolls the day-0 positions forward through
the day-1 transactions, diffs the result against the day-1 reported
positions, and writes the breaks to the output file, replacing any
previous report. Each successful run is archived unless --no-history is
given.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := types.ReconConfig{
		InputPath:  stringSetting(cmd, "input", "input"),
		OutputPath: stringSetting(cmd, "output", "output"),
	}
	noHistory, _ := cmd.Flags().GetBool("no-history")

	breaks, summary, err := reconcileFile(cfg.InputPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if err := ledger.WriteBreaks(cfg.OutputPath, breaks); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d break(s))\n", cfg.OutputPath, len(breaks))

	if noHistory {
		return nil
	}
	return recordRun(cmd, cfg, breaks, summary)
}

// reconcileFile loads the ledger at input and runs the engine, printing
// progress to w. Nothing is written to disk.
func reconcileFile(input string, w io.Writer) ([]types.Break, recon.Summary, error) {
	l, err := ledger.Read(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, recon.Summary{}, fmt.Errorf("input file %s not found: %w", input, err)
		}
		return nil, recon.Summary{}, err
	}

	breaks, summary := recon.Reconcile(l, w)
	return breaks, summary, nil
}

func recordRun(cmd *cobra.Command, cfg types.ReconConfig, breaks []types.Break, summary recon.Summary) error {
	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	id, err := store.Record(context.Background(), history.Run{
		StartedAt:  time.Now(),
		InputPath:  cfg.InputPath,
		OutputPath: cfg.OutputPath,
		Summary:    summary,
		Breaks:     breaks,
	})
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "archived as run %d\n", id)
	return nil
}

func historyConfig(cmd *cobra.Command) types.HistoryConfig {
	dir := stringSetting(cmd, "history-dir", "history.dir")
	maxResults := viper.GetInt("history.max_results")
	if cmd.Flags().Changed("max-results") {
		maxResults, _ = cmd.Flags().GetInt("max-results")
	}
	return types.HistoryConfig{Dir: dir, MaxResults: maxResults}
}

func init() {
	runCmd.Flags().String("input", "recon.in", "ledger file to read")
	runCmd.Flags().String("output", "recon.out", "break report file to write")
	runCmd.Flags().String("history-dir", ".recon", "directory for the run archive")
	runCmd.Flags().Bool("no-history", false, "skip archiving the run")

	rootCmd.AddCommand(runCmd)
}
