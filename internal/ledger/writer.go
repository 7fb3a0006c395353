// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcenglish/recon/pkg/types"
)

// FormatBreaks renders breaks as recon.out content: one "SYMBOL SHARES"
// line per break. Callers are expected to pass breaks already sorted by
// symbol.
func FormatBreaks(breaks []types.Break) string {
	var b strings.Builder
	for _, br := range breaks {
		fmt.Fprintf(&b, "%s %s\n", br.Symbol, br.Shares.String())
	}
	return b.String()
}

// WriteBreaks writes the break report to path, replacing any existing
// file. The content goes to a temp file in the same directory first and
// is renamed into place, so a failed write never leaves a truncated
// report behind.
func WriteBreaks(path string, breaks []types.Break) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("writing break report: %w", err)
	}

	if _, err := tmp.WriteString(FormatBreaks(breaks)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing break report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing break report: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing break report: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing break report: %w", err)
	}
	return nil
}
