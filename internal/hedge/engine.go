// Package hedge implements the risk-neutralization ("free roll") decision
// logic: once a position has gained enough, sell exactly the number of
// contracts whose proceeds recover the initial capital, keeping the rest as a
// zero-cost residual.
package hedge

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DefaultTriggerPercent is the gain threshold that activates the hedge (0.50 = 50%)
var DefaultTriggerPercent = decimal.NewFromFloat(0.50)

// Errors for invalid evaluation inputs
var (
	ErrInvalidEntryPrice   = errors.New("entry price must be positive")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInvalidCurrentPrice = errors.New("current price must be positive")
)

// Decision is the result of evaluating a position against the current price.
// It is derived deterministically from the inputs and is never persisted.
type Decision struct {
	Triggered         bool
	PercentGain       decimal.Decimal
	InitialCapital    decimal.Decimal
	SellQuantity      int64
	RemainingQuantity int64
}

// Actionable reports whether the decision calls for an order. A triggered
// decision with a zero sell quantity (e.g. a single-contract position) places
// no order.
func (d Decision) Actionable() bool {
	return d.Triggered && d.SellQuantity > 0
}

// CapitalRecovered returns the proceeds of the hedge sale at the given price
func (d Decision) CapitalRecovered(currentPrice decimal.Decimal) decimal.Decimal {
	return currentPrice.Mul(decimal.NewFromInt(d.SellQuantity))
}

// Engine evaluates hedge triggers and sizes hedge sales. It is pure: the same
// inputs always produce the same decision, and it holds no position state.
type Engine struct {
	trigger decimal.Decimal
}

// NewEngine creates an engine with the given trigger threshold expressed as a
// fraction (0.50 fires at a 50% gain). Non-positive thresholds fall back to
// the default.
func NewEngine(triggerPercent decimal.Decimal) *Engine {
	if triggerPercent.LessThanOrEqual(decimal.Zero) {
		triggerPercent = DefaultTriggerPercent
	}
	return &Engine{trigger: triggerPercent}
}

// Evaluate computes the hedge decision for a position with the given entry
// price and quantity at the current market price. Prices are in dollars.
//
// The trigger boundary is inclusive: a gain of exactly the threshold fires.
// Sizing is floor(entryPrice*quantity / currentPrice), clamped to [0, Q-1] so
// at least one contract always remains as the free residual. Floor is
// deliberate: the computed quantity's proceeds never exceed the initial
// capital, so the hedge can under-recover slightly but never oversell.
func (e *Engine) Evaluate(entryPrice decimal.Decimal, quantity int64, currentPrice decimal.Decimal) (Decision, error) {
	if entryPrice.LessThanOrEqual(decimal.Zero) {
		return Decision{}, ErrInvalidEntryPrice
	}
	if quantity <= 0 {
		return Decision{}, ErrInvalidQuantity
	}
	if currentPrice.LessThanOrEqual(decimal.Zero) {
		return Decision{}, ErrInvalidCurrentPrice
	}

	percentGain := currentPrice.Sub(entryPrice).Div(entryPrice)
	initialCapital := entryPrice.Mul(decimal.NewFromInt(quantity))

	decision := Decision{
		PercentGain:       percentGain,
		InitialCapital:    initialCapital,
		RemainingQuantity: quantity,
	}

	if percentGain.LessThan(e.trigger) {
		return decision, nil
	}

	decision.Triggered = true

	rawSellQty := initialCapital.Div(currentPrice).Floor().IntPart()

	sellQty := rawSellQty
	if sellQty > quantity-1 {
		sellQty = quantity - 1
	}
	if sellQty < 0 {
		sellQty = 0
	}

	decision.SellQuantity = sellQty
	decision.RemainingQuantity = quantity - sellQty

	return decision, nil
}
