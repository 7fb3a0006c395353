// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jcenglish/recon/internal/recon"
	"github.com/jcenglish/recon/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reconcile and print the breaks without writing recon.out",
	Long: `Report runs the same reconciliation as "recon run" but prints the
breaks to stdout as an aligned table (or JSON with --json) instead of
writing the output file. Nothing is archived.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	input := stringSetting(cmd, "input", "input")

	// Progress goes to stderr so the table stays clean on stdout.
	breaks, summary, err := reconcileFile(input, os.Stderr)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatReport(breaks, summary, jsonOutput)
}

func formatReport(breaks []types.Break, summary recon.Summary, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Breaks  []types.Break `json:"breaks"`
			Summary recon.Summary `json:"summary"`
		}{breaks, summary})
	}

	if len(breaks) == 0 {
		fmt.Println("No breaks found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %s\n", "Symbol", "Shares")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 24))
	for _, br := range breaks {
		fmt.Fprintf(os.Stdout, "%-10s  %s\n", br.Symbol, br.Shares.String())
	}
	fmt.Fprintf(os.Stdout, "\n%d break(s) across %d position(s), %d transaction(s)\n",
		summary.Breaks, summary.Positions, summary.Transactions)
	return nil
}

func init() {
	reportCmd.Flags().String("input", "recon.in", "ledger file to read")
	reportCmd.Flags().Bool("json", false, "output breaks as JSON")

	rootCmd.AddCommand(reportCmd)
}
