// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jcenglish/recon/internal/ledger"
	"github.com/jcenglish/recon/internal/watch"
	"github.com/jcenglish/recon/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rerun reconciliation whenever the ledger file changes",
	Long: `Watch monitors the input ledger and reruns reconciliation after each
change, rewriting the output file. A failed run (for example a half-saved
ledger with a parse error) is reported and the watch continues. Stop with
Ctrl-C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	input := stringSetting(cmd, "input", "input")
	output := stringSetting(cmd, "output", "output")

	wcfg := types.WatchConfig{Debounce: viper.GetDuration("watch.debounce")}
	if cmd.Flags().Changed("debounce") {
		wcfg.Debounce, _ = cmd.Flags().GetDuration("debounce")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rerun := func() {
		breaks, _, err := reconcileFile(input, cmd.OutOrStdout())
		if err != nil {
			fmt.Fprintln(os.Stderr, "watch:", err)
			return
		}
		if err := ledger.WriteBreaks(output, breaks); err != nil {
			fmt.Fprintln(os.Stderr, "watch:", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d break(s))\n", output, len(breaks))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s (debounce %s)\n", input, wcfg.Debounce)
	rerun()

	err := watch.File(ctx, input, wcfg.Debounce, rerun)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(cmd.OutOrStdout(), "stopped")
		return nil
	}
	return err
}

func init() {
	watchCmd.Flags().String("input", "recon.in", "ledger file to watch")
	watchCmd.Flags().String("output", "recon.out", "break report file to write")
	watchCmd.Flags().Duration("debounce", 500*time.Millisecond, "quiet period before a rerun")

	rootCmd.AddCommand(watchCmd)
}
