// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger reads and writes the recon file formats: the three-section
// input ledger (recon.in) and the break report (recon.out).
package ledger

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcenglish/recon/pkg/types"
)

// Section headers recognized in the input file.
const (
	headerDayZero      = "D0-POS"
	headerTransactions = "D1-TRN"
	headerDayOne       = "D1-POS"
)

// ParseError describes a malformed input line.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// Read loads and parses the ledger file at path. A missing file is returned
// as the underlying os error so callers can distinguish it from a parse
// failure.
func Read(path string) (*types.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	l := &types.Ledger{
		DayZero:      make(map[string]types.Position),
		Transactions: make(map[string][]types.Transaction),
		DayOne:       make(map[string]types.Position),
	}

	perr := func(line int, format string, args ...any) error {
		return &ParseError{Path: path, Line: line, Msg: fmt.Sprintf(format, args...)}
	}

	var section string
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case headerDayZero, headerTransactions, headerDayOne:
			section = line
			continue
		}

		fields := strings.Fields(line)
		switch section {
		case headerDayZero, headerDayOne:
			if len(fields) != 2 {
				return nil, perr(lineNo, "position record needs SYMBOL SHARES, got %d field(s)", len(fields))
			}
			shares, err := decimal.NewFromString(fields[1])
			if err != nil {
				return nil, perr(lineNo, "invalid share count %q", fields[1])
			}
			pos := types.Position{Symbol: fields[0], Shares: shares}
			if section == headerDayZero {
				l.DayZero[pos.Symbol] = pos
			} else {
				l.DayOne[pos.Symbol] = pos
			}

		case headerTransactions:
			if len(fields) != 4 {
				return nil, perr(lineNo, "transaction record needs SYMBOL ACTION SHARES VALUE, got %d field(s)", len(fields))
			}
			action := types.Action(strings.ToUpper(fields[1]))
			if !types.KnownAction(action) {
				return nil, perr(lineNo, "unknown action %q", fields[1])
			}
			shares, err := decimal.NewFromString(fields[2])
			if err != nil {
				return nil, perr(lineNo, "invalid share count %q", fields[2])
			}
			value, err := decimal.NewFromString(fields[3])
			if err != nil {
				return nil, perr(lineNo, "invalid value %q", fields[3])
			}
			txn := types.Transaction{
				Symbol: fields[0],
				Action: action,
				Shares: shares,
				Value:  value,
			}
			l.Transactions[txn.Symbol] = append(l.Transactions[txn.Symbol], txn)

		default:
			return nil, perr(lineNo, "record before section header (expected %s, %s, or %s)",
				headerDayZero, headerTransactions, headerDayOne)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	return l, nil
}
