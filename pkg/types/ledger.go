// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "github.com/shopspring/decimal"

// CashSymbol is the reserved symbol for the account's currency position.
// Trades settle against it and cash-only actions move it directly.
const CashSymbol = "Cash"

// Action identifies the kind of a ledger transaction.
type Action string

const (
	ActionBuy        Action = "BUY"
	ActionSell       Action = "SELL"
	ActionDeposit    Action = "DEPOSIT"
	ActionWithdrawal Action = "WITHDRAWAL"
	ActionFee        Action = "FEE"
	ActionDividend   Action = "DIVIDEND"
)

// KnownAction reports whether a is one of the supported transaction actions.
func KnownAction(a Action) bool {
	switch a {
	case ActionBuy, ActionSell, ActionDeposit, ActionWithdrawal, ActionFee, ActionDividend:
		return true
	}
	return false
}

// Position holds the share count for a single symbol. For the Cash symbol
// the share count is a currency amount.
type Position struct {
	// Symbol is the instrument ticker (or "Cash").
	Symbol string `json:"symbol" yaml:"symbol"`

	// Shares is the position size. Fractional shares are allowed.
	Shares decimal.Decimal `json:"shares" yaml:"shares"`
}

// Transaction is a single day-1 account event.
type Transaction struct {
	// Symbol is the instrument the transaction applies to.
	Symbol string `json:"symbol" yaml:"symbol"`

	// Action is the transaction kind (BUY, SELL, DEPOSIT, WITHDRAWAL, FEE, DIVIDEND).
	Action Action `json:"action" yaml:"action"`

	// Shares is the share count moved. Zero for cash-only actions.
	Shares decimal.Decimal `json:"shares" yaml:"shares"`

	// Value is the cash amount the transaction settles for.
	Value decimal.Decimal `json:"value" yaml:"value"`
}

// Ledger is the parsed contents of a recon input file: the day-0 position
// snapshot, the day-1 transaction log, and the day-1 reported positions.
type Ledger struct {
	// DayZero maps symbol to the position held at the start of day 1.
	DayZero map[string]Position `json:"day_zero" yaml:"day_zero"`

	// Transactions maps symbol to the ordered day-1 transactions for it.
	Transactions map[string][]Transaction `json:"transactions" yaml:"transactions"`

	// DayOne maps symbol to the position the broker reports at end of day 1.
	DayOne map[string]Position `json:"day_one" yaml:"day_one"`
}

// Break is a reconciliation difference for one symbol: the share count the
// day-1 report carries that the transaction-adjusted book cannot explain.
// Negative shares mean the book holds more than the report.
type Break struct {
	Symbol string          `json:"symbol" yaml:"symbol"`
	Shares decimal.Decimal `json:"shares" yaml:"shares"`
}
