package types

import "time"

// ReconConfig holds settings for a reconciliation run.
type ReconConfig struct {
	// InputPath is the ledger file to read (default "recon.in").
	InputPath string `json:"input" yaml:"input"`

	// OutputPath is the break file to write (default "recon.out").
	OutputPath string `json:"output" yaml:"output"`
}

// HistoryConfig holds settings for the run history archive.
type HistoryConfig struct {
	// Dir is the directory holding the archive database (default ".recon").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of runs listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	// Debounce is the quiet period after a file event before a rerun
	// fires (default 500ms). Editors often write a file several times
	// per save.
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}

// Config groups all tool configuration.
type Config struct {
	Recon   ReconConfig   `json:"recon" yaml:"recon"`
	History HistoryConfig `json:"history" yaml:"history"`
	Watch   WatchConfig   `json:"watch" yaml:"watch"`
}
