// Package positions defines the position domain model and the sources that
// enumerate open positions for hedge evaluation.
package positions

import (
	"github.com/shopspring/decimal"
)

// Position status values
const (
	StatusOpen   = "OPEN"
	StatusHedged = "HEDGED"
)

// Position represents a held binary-outcome contract position. EntryPrice is
// the average price paid per contract in dollars. ExternalID is the database
// handle when the position is tracked persistently; positions discovered by a
// live portfolio scan carry no handle.
type Position struct {
	Ticker     string
	EntryPrice decimal.Decimal
	Quantity   int64
	Status     string
	ExternalID *int64
}

// IsOpen reports whether the position is still open
func (p *Position) IsOpen() bool {
	return p.Status == StatusOpen
}

// HasHandle reports whether the position can be recorded in persistent storage
func (p *Position) HasHandle() bool {
	return p.ExternalID != nil
}

// Notional returns the dollar value invested in the position
func (p *Position) Notional() decimal.Decimal {
	return p.EntryPrice.Mul(decimal.NewFromInt(p.Quantity))
}
