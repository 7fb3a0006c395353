// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recon

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jcenglish/recon/pkg/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func positions(pairs ...string) map[string]types.Position {
	m := make(map[string]types.Position, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i]] = types.Position{Symbol: pairs[i], Shares: dec(pairs[i+1])}
	}
	return m
}

// sampleLedger mirrors the canonical recon.in example.
func sampleLedger() *types.Ledger {
	return &types.Ledger{
		DayZero: positions("AAPL", "100", "GOOG", "200", "SP500", "175.75", "Cash", "1000"),
		Transactions: map[string][]types.Transaction{
			"AAPL": {{Symbol: "AAPL", Action: types.ActionSell, Shares: dec("100"), Value: dec("30000")}},
			"GOOG": {
				{Symbol: "GOOG", Action: types.ActionBuy, Shares: dec("10"), Value: dec("10000")},
				{Symbol: "GOOG", Action: types.ActionDividend, Shares: dec("0"), Value: dec("50")},
			},
			"Cash": {
				{Symbol: "Cash", Action: types.ActionDeposit, Shares: dec("0"), Value: dec("1000")},
				{Symbol: "Cash", Action: types.ActionFee, Shares: dec("0"), Value: dec("50")},
			},
			"TD": {{Symbol: "TD", Action: types.ActionBuy, Shares: dec("100"), Value: dec("10000")}},
		},
		DayOne: positions("GOOG", "220", "SP500", "175.75", "Cash", "20000", "MSFT", "10"),
	}
}

func TestApplySample(t *testing.T) {
	book := Apply(sampleLedger())

	want := positions("AAPL", "0", "GOOG", "210", "SP500", "175.75", "Cash", "12000", "TD", "100")
	if len(book) != len(want) {
		t.Fatalf("book has %d positions, want %d: %v", len(book), len(want), book)
	}
	for sym, w := range want {
		got, ok := book[sym]
		if !ok {
			t.Errorf("book missing %s", sym)
			continue
		}
		if !got.Shares.Equal(w.Shares) {
			t.Errorf("book[%s].Shares = %s, want %s", sym, got.Shares, w.Shares)
		}
	}
}

func TestApplyDoesNotMutateLedger(t *testing.T) {
	l := sampleLedger()
	Apply(l)

	if got := l.DayZero["AAPL"].Shares; !got.Equal(dec("100")) {
		t.Errorf("DayZero[AAPL].Shares = %s after Apply, want 100", got)
	}
	if got := l.DayZero["Cash"].Shares; !got.Equal(dec("1000")) {
		t.Errorf("DayZero[Cash].Shares = %s after Apply, want 1000", got)
	}
}

func TestApplyCumulativeTrades(t *testing.T) {
	// Two buys of the same symbol must stack, not restart from day 0.
	l := &types.Ledger{
		DayZero: positions("GE", "50", "Cash", "5000"),
		Transactions: map[string][]types.Transaction{
			"GE": {
				{Symbol: "GE", Action: types.ActionBuy, Shares: dec("100"), Value: dec("909")},
				{Symbol: "GE", Action: types.ActionBuy, Shares: dec("200"), Value: dec("1818")},
			},
		},
		DayOne: map[string]types.Position{},
	}

	book := Apply(l)
	if got := book["GE"].Shares; !got.Equal(dec("350")) {
		t.Errorf("book[GE].Shares = %s, want 350", got)
	}
	if got := book["Cash"].Shares; !got.Equal(dec("2273")) {
		t.Errorf("book[Cash].Shares = %s, want 2273", got)
	}
}

func TestApplySeedsMissingPositions(t *testing.T) {
	// No day-0 Cash and no day-0 TD: the first transaction creates both
	// instead of dropping its value.
	l := &types.Ledger{
		DayZero: map[string]types.Position{},
		Transactions: map[string][]types.Transaction{
			"TD": {{Symbol: "TD", Action: types.ActionBuy, Shares: dec("100"), Value: dec("10000")}},
		},
		DayOne: map[string]types.Position{},
	}

	book := Apply(l)
	if got := book["TD"].Shares; !got.Equal(dec("100")) {
		t.Errorf("book[TD].Shares = %s, want 100", got)
	}
	if got := book["Cash"].Shares; !got.Equal(dec("-10000")) {
		t.Errorf("book[Cash].Shares = %s, want -10000", got)
	}
}

func TestApplyWithdrawal(t *testing.T) {
	l := &types.Ledger{
		DayZero: positions("Cash", "500"),
		Transactions: map[string][]types.Transaction{
			"Cash": {{Symbol: "Cash", Action: types.ActionWithdrawal, Shares: dec("0"), Value: dec("200")}},
		},
		DayOne: map[string]types.Position{},
	}
	if got := Apply(l)["Cash"].Shares; !got.Equal(dec("300")) {
		t.Errorf("book[Cash].Shares = %s, want 300", got)
	}
}

func TestDiffSample(t *testing.T) {
	l := sampleLedger()
	breaks := Diff(Apply(l), l.DayOne)

	want := []types.Break{
		{Symbol: "Cash", Shares: dec("8000")},
		{Symbol: "GOOG", Shares: dec("10")},
		{Symbol: "MSFT", Shares: dec("10")},
		{Symbol: "TD", Shares: dec("-100")},
	}
	if len(breaks) != len(want) {
		t.Fatalf("got %d breaks, want %d: %v", len(breaks), len(want), breaks)
	}
	for i, w := range want {
		if breaks[i].Symbol != w.Symbol || !breaks[i].Shares.Equal(w.Shares) {
			t.Errorf("breaks[%d] = %s %s, want %s %s",
				i, breaks[i].Symbol, breaks[i].Shares, w.Symbol, w.Shares)
		}
	}
}

func TestDiffZeroBookPositionOmittedByReport(t *testing.T) {
	// AAPL sold to zero and absent from the report is not a break.
	book := positions("AAPL", "0")
	breaks := Diff(book, map[string]types.Position{})
	if len(breaks) != 0 {
		t.Errorf("got %d breaks, want 0: %v", len(breaks), breaks)
	}
}

func TestDiffClean(t *testing.T) {
	book := positions("AAPL", "100", "Cash", "1000")
	breaks := Diff(book, positions("AAPL", "100", "Cash", "1000"))
	if len(breaks) != 0 {
		t.Errorf("got %d breaks, want 0: %v", len(breaks), breaks)
	}
}

func TestDiffFractionalShares(t *testing.T) {
	book := positions("SP500", "175.75")
	breaks := Diff(book, positions("SP500", "176"))
	if len(breaks) != 1 {
		t.Fatalf("got %d breaks, want 1", len(breaks))
	}
	if !breaks[0].Shares.Equal(dec("0.25")) {
		t.Errorf("break shares = %s, want 0.25", breaks[0].Shares)
	}
}

func TestReconcile(t *testing.T) {
	var buf bytes.Buffer
	breaks, summary := Reconcile(sampleLedger(), &buf)

	if summary.Positions != 4 || summary.Transactions != 6 || summary.Breaks != 4 {
		t.Errorf("summary = %+v, want 4 positions, 6 transactions, 4 breaks", summary)
	}
	if summary.Clean() {
		t.Error("summary.Clean() = true, want false")
	}
	if len(breaks) != 4 {
		t.Errorf("got %d breaks, want 4", len(breaks))
	}

	out := buf.String()
	if !strings.Contains(out, "loaded 4 position(s), 6 transaction(s), 4 reported position(s)") {
		t.Errorf("progress output missing load line: %q", out)
	}
	if !strings.Contains(out, "found 4 break(s)") {
		t.Errorf("progress output missing break count: %q", out)
	}
}

func TestReconcileClean(t *testing.T) {
	l := &types.Ledger{
		DayZero:      positions("AAPL", "100"),
		Transactions: map[string][]types.Transaction{},
		DayOne:       positions("AAPL", "100"),
	}

	var buf bytes.Buffer
	breaks, summary := Reconcile(l, &buf)

	if len(breaks) != 0 || !summary.Clean() {
		t.Errorf("breaks = %v, Clean = %v, want clean run", breaks, summary.Clean())
	}
	if !strings.Contains(buf.String(), "reconciled clean") {
		t.Errorf("progress output missing clean line: %q", buf.String())
	}
}
