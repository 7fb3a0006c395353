// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recon implements position reconciliation: it rolls a day-0
// position snapshot forward through the day-1 transaction log and diffs
// the result against the day-1 reported positions. Whatever the report
// carries that the rolled-forward book cannot explain is a break.
package recon

import (
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jcenglish/recon/pkg/types"
)

// Summary holds counts from a reconciliation run.
type Summary struct {
	Positions    int `json:"positions" yaml:"positions"`
	Transactions int `json:"transactions" yaml:"transactions"`
	Breaks       int `json:"breaks" yaml:"breaks"`
}

// Clean reports whether the run found no breaks.
func (s Summary) Clean() bool {
	return s.Breaks == 0
}

// Apply rolls the day-0 positions forward through the transaction log and
// returns the resulting book. The ledger is not modified. Transactions are
// applied cumulatively per symbol in file order; cross-symbol ordering is
// immaterial because all cash effects are additive.
func Apply(l *types.Ledger) map[string]types.Position {
	book := make(map[string]types.Position, len(l.DayZero))
	for sym, pos := range l.DayZero {
		book[sym] = pos
	}

	for _, sym := range sortedKeys(l.Transactions) {
		for _, txn := range l.Transactions[sym] {
			applyTxn(book, txn)
		}
	}
	return book
}

// applyTxn mutates book with a single transaction. BUY and SELL move the
// instrument position and settle against Cash; the cash-only actions move
// Cash alone.
func applyTxn(book map[string]types.Position, txn types.Transaction) {
	switch txn.Action {
	case types.ActionBuy:
		addShares(book, txn.Symbol, txn.Shares)
		addShares(book, types.CashSymbol, txn.Value.Neg())
	case types.ActionSell:
		addShares(book, txn.Symbol, txn.Shares.Neg())
		addShares(book, types.CashSymbol, txn.Value)
	case types.ActionDeposit, types.ActionDividend:
		addShares(book, types.CashSymbol, txn.Value)
	case types.ActionFee, types.ActionWithdrawal:
		addShares(book, types.CashSymbol, txn.Value.Neg())
	}
}

// addShares adjusts the position for sym by delta, creating it if the
// symbol is not yet in the book.
func addShares(book map[string]types.Position, sym string, delta decimal.Decimal) {
	pos, ok := book[sym]
	if !ok {
		pos = types.Position{Symbol: sym}
	}
	pos.Shares = pos.Shares.Add(delta)
	book[sym] = pos
}

// Diff compares the rolled-forward book against the day-1 reported
// positions and returns the breaks sorted by symbol. A symbol present on
// both sides with equal shares produces no break; otherwise the break is
// the reported count minus the book count. A nonzero book position the
// report omits shows up as the negated book count.
func Diff(book, dayOne map[string]types.Position) []types.Break {
	var breaks []types.Break

	for sym, reported := range dayOne {
		held, ok := book[sym]
		if !ok {
			breaks = append(breaks, types.Break{Symbol: sym, Shares: reported.Shares})
			continue
		}
		if !held.Shares.Equal(reported.Shares) {
			breaks = append(breaks, types.Break{Symbol: sym, Shares: reported.Shares.Sub(held.Shares)})
		}
	}

	for sym, held := range book {
		if _, ok := dayOne[sym]; ok {
			continue
		}
		if !held.Shares.IsZero() {
			breaks = append(breaks, types.Break{Symbol: sym, Shares: held.Shares.Neg()})
		}
	}

	sort.Slice(breaks, func(i, j int) bool { return breaks[i].Symbol < breaks[j].Symbol })
	return breaks
}

// Reconcile runs the full apply-and-diff pass over a ledger, printing
// per-stage progress to w, and returns the breaks with a summary.
func Reconcile(l *types.Ledger, w io.Writer) ([]types.Break, Summary) {
	txnCount := 0
	for _, txns := range l.Transactions {
		txnCount += len(txns)
	}
	fmt.Fprintf(w, "loaded %d position(s), %d transaction(s), %d reported position(s)\n",
		len(l.DayZero), txnCount, len(l.DayOne))

	book := Apply(l)
	breaks := Diff(book, l.DayOne)

	if len(breaks) == 0 {
		fmt.Fprintln(w, "reconciled clean: book matches reported positions")
	} else {
		fmt.Fprintf(w, "found %d break(s)\n", len(breaks))
	}

	return breaks, Summary{
		Positions:    len(l.DayZero),
		Transactions: txnCount,
		Breaks:       len(breaks),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
