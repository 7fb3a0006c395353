// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jcenglish/recon/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the archive of past reconciliation runs",
	Long: `History manages a local SQLite archive of reconciliation runs. Each
"recon run" stores its summary and breaks; use the subcommands to list
runs, show one run's breaks, or export the archive.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs archived.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-16s  %-12s  %-6s\n",
		"ID", "Started", "Input", "Transactions", "Breaks")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 66))
	for _, r := range runs {
		input := r.InputPath
		if len(input) > 16 {
			input = input[:13] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-16s  %-12d  %-6d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			input, r.Summary.Transactions, r.Summary.Breaks)
	}
	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(runs))
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run's summary and breaks",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "run %d  %s\n", run.ID, run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(os.Stdout, "input: %s  output: %s\n", run.InputPath, run.OutputPath)
	fmt.Fprintf(os.Stdout, "%d position(s), %d transaction(s)\n\n",
		run.Summary.Positions, run.Summary.Transactions)

	if len(run.Breaks) == 0 {
		fmt.Println("Reconciled clean.")
		return nil
	}
	for _, br := range run.Breaks {
		fmt.Fprintf(os.Stdout, "%s %s\n", br.Symbol, br.Shares.String())
	}
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run archive to YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background())
	case "json":
		path, err = store.ExportJSON(context.Background())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Println("Exported to", path)
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	historyCmd.PersistentFlags().String("history-dir", ".recon", "directory for the run archive")
	historyCmd.PersistentFlags().Int("max-results", 20, "default maximum runs listed")

	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
