// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the recon CLI: it reconciles a
// day-0 position snapshot plus a day-1 transaction log against day-1
// reported positions and writes the differences to recon.out.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the recon CLI. Invoked bare, it behaves
// like "recon run" so the classic recon.in -> recon.out flow needs no
// arguments.
var rootCmd = &cobra.Command{
	Use:   "recon",
	Short: "Reconcile account positions against a transaction log",
	Long: `recon reads a ledger file (recon.in by default) containing day-0
positions, day-1 transactions, and day-1 reported positions. It rolls the
day-0 book forward through the transactions, compares the result with the
reported positions, and writes each difference to recon.out as a
"SYMBOL SHARES" line.

Run without arguments to reconcile the working directory's recon.in, or
use the subcommands for reporting, run history, and watch mode.`,
	SilenceUsage: true,
	RunE:         runRun,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./recon.yaml or ~/.config/recon/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("recon")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "recon"))
		}
	}

	viper.SetEnvPrefix("RECON")
	viper.AutomaticEnv()

	viper.SetDefault("input", "recon.in")
	viper.SetDefault("output", "recon.out")
	viper.SetDefault("history.dir", ".recon")
	viper.SetDefault("history.max_results", 20)
	viper.SetDefault("watch.debounce", 500*time.Millisecond)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a setting from an explicitly set flag first, then
// the viper config (file, env, or default).
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
