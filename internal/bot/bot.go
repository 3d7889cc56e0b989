// Package bot sequences the hedge pipeline: enumerate positions, evaluate
// each against the current market price, and route triggered hedges to the
// order executor, status sink, and notifier. One position's failure never
// aborts the rest of the run; only a position source failure is fatal.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"kalshi-hedge-bot/internal/hedge"
	"kalshi-hedge-bot/internal/market"
	"kalshi-hedge-bot/internal/orders"
	"kalshi-hedge-bot/internal/positions"
)

// StatusSink records a completed hedge against a persisted position
type StatusSink interface {
	MarkHedged(ctx context.Context, handle int64, remainingQuantity int64) error
}

// HedgeRegistry tracks hedged tickers across runs so portfolio-scanned
// positions are not hedged twice while the sell is settling
type HedgeRegistry interface {
	IsHedged(ctx context.Context, ticker string) (bool, error)
	Record(ctx context.Context, ticker, orderID string, sold, remaining int64, priceCents int64) error
}

// Notifier emits human-readable alerts; all sends are best-effort
type Notifier interface {
	SendHedgeExecuted(ticker string, sold, remaining int64, price, recovered, percentGain decimal.Decimal) error
	SendHedgeFailed(ticker, reason string) error
	SendError(title, message string) error
}

// RunStats summarizes one bot run
type RunStats struct {
	Evaluated int
	Hedged    int
	Skipped   int
	Failed    int
}

// HedgeBot orchestrates one sequential pass over the open positions
type HedgeBot struct {
	source   positions.Source
	oracle   market.Oracle
	engine   *hedge.Engine
	executor orders.Executor
	sink     StatusSink
	registry HedgeRegistry
	notifier Notifier
	logger   zerolog.Logger

	statusTimeout time.Duration
}

// New creates a hedge bot. sink and registry may be nil when the deployment
// has no database or Redis; persistence is then skipped for every position.
func New(source positions.Source, oracle market.Oracle, engine *hedge.Engine,
	executor orders.Executor, sink StatusSink, registry HedgeRegistry,
	notifier Notifier, logger zerolog.Logger) *HedgeBot {
	return &HedgeBot{
		source:        source,
		oracle:        oracle,
		engine:        engine,
		executor:      executor,
		sink:          sink,
		registry:      registry,
		notifier:      notifier,
		logger:        logger.With().Str("component", "hedge_bot").Str("run_id", uuid.NewString()).Logger(),
		statusTimeout: 10 * time.Second,
	}
}

// Run executes one hedge pass. It returns an error only for run-level
// failures (the position source itself is unreachable); per-position errors
// are logged, notified, and absorbed.
func (b *HedgeBot) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	b.logger.Info().Msg("Starting hedge run")

	openPositions, err := b.source.ListOpen(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("Cannot enumerate positions, aborting run")
		b.notifier.SendError("Critical error in hedge run", fmt.Sprintf("Cannot enumerate positions: %v", err))
		return stats, fmt.Errorf("position source failed: %w", err)
	}

	if len(openPositions) == 0 {
		b.logger.Info().Msg("No open positions to process")
		return stats, nil
	}

	for _, pos := range openPositions {
		stats.Evaluated++
		if err := b.processPosition(ctx, pos); err != nil {
			if errors.Is(err, errSkipped) {
				stats.Skipped++
				continue
			}
			stats.Failed++
			b.logger.Error().Err(err).Str("ticker", pos.Ticker).Msg("Error processing position")
			b.notifier.SendHedgeFailed(pos.Ticker, err.Error())
			continue
		}
		stats.Hedged++
	}

	b.logger.Info().Int("evaluated", stats.Evaluated).Int("hedged", stats.Hedged).
		Int("skipped", stats.Skipped).Int("failed", stats.Failed).
		Msg("Hedge run completed")

	return stats, nil
}

// errSkipped marks positions that were passed over without a hedge attempt:
// below the trigger, no quote, already hedged, or non-actionable sizing.
var errSkipped = errors.New("position skipped")

// processPosition runs the pipeline for one position. Returns errSkipped for
// the no-action outcomes and a real error when a hedge was attempted and
// failed.
func (b *HedgeBot) processPosition(ctx context.Context, pos positions.Position) error {
	logger := b.logger.With().Str("ticker", pos.Ticker).Logger()

	logger.Info().Str("entry_price", pos.EntryPrice.StringFixed(2)).
		Int64("quantity", pos.Quantity).Msg("Processing position")

	if b.registry != nil {
		hedged, err := b.registry.IsHedged(ctx, pos.Ticker)
		if err != nil {
			// Registry is advisory; the database status stays authoritative
			logger.Warn().Err(err).Msg("Hedge registry unavailable, continuing without cross-run exclusion")
		} else if hedged {
			logger.Info().Msg("Skipping: ticker already hedged in a recent run")
			return errSkipped
		}
	}

	currentPrice, err := b.oracle.SellPrice(ctx, pos.Ticker)
	if err != nil {
		// No quote, no decision: skip with a log entry, not an error state
		logger.Warn().Err(err).Msg("Skipping: no price data available")
		return errSkipped
	}

	decision, err := b.engine.Evaluate(pos.EntryPrice, pos.Quantity, currentPrice)
	if err != nil {
		return fmt.Errorf("hedge evaluation failed: %w", err)
	}

	gainPct := decision.PercentGain.Mul(decimal.NewFromInt(100))
	logger.Info().Str("gain", gainPct.StringFixed(2)+"%").Msg("Evaluated position")

	if !decision.Triggered {
		logger.Info().Msg("Below trigger threshold, no action taken")
		return errSkipped
	}

	if !decision.Actionable() {
		logger.Info().Msg("Trigger met but no actionable hedge quantity, skipping order")
		return errSkipped
	}

	logger.Info().Int64("sell", decision.SellQuantity).Int64("of", pos.Quantity).
		Str("initial_capital", decision.InitialCapital.StringFixed(2)).
		Msg("Trigger met, executing hedge")

	result, err := b.executor.Sell(ctx, pos.Ticker, decision.SellQuantity, currentPrice)
	if err != nil {
		return fmt.Errorf("order execution failed: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("order placement failed: no order returned")
	}

	b.recordHedge(ctx, pos, decision, currentPrice, result, logger)

	recovered := decision.CapitalRecovered(currentPrice)
	b.notifier.SendHedgeExecuted(pos.Ticker, decision.SellQuantity, decision.RemainingQuantity,
		currentPrice, recovered, decision.PercentGain)

	return nil
}

// recordHedge persists the hedge outcome. Both writes are best-effort: a
// failure here leaves a known inconsistency (the sale happened but is not
// recorded), which is surfaced for manual reconciliation rather than failing
// the hedge.
func (b *HedgeBot) recordHedge(ctx context.Context, pos positions.Position, decision hedge.Decision,
	currentPrice decimal.Decimal, result orders.OrderResult, logger zerolog.Logger) {

	if b.sink != nil && pos.HasHandle() {
		sinkCtx, cancel := context.WithTimeout(ctx, b.statusTimeout)
		defer cancel()

		if err := b.sink.MarkHedged(sinkCtx, *pos.ExternalID, decision.RemainingQuantity); err != nil {
			logger.Error().Err(err).Int64("position_id", *pos.ExternalID).
				Msg("Sell succeeded but status update failed, manual reconciliation needed")
			b.notifier.SendError("Status update failed",
				fmt.Sprintf("%s: sold %d contracts (order %s) but position %d is still marked OPEN",
					pos.Ticker, decision.SellQuantity, result.OrderID, *pos.ExternalID))
		}
	} else {
		logger.Info().Msg("No persistence handle, skipping database update")
	}

	if b.registry != nil {
		priceCents := currentPrice.Mul(decimal.NewFromInt(100)).IntPart()
		if err := b.registry.Record(ctx, pos.Ticker, result.OrderID,
			decision.SellQuantity, decision.RemainingQuantity, priceCents); err != nil {
			logger.Warn().Err(err).Msg("Failed to record hedge in registry")
		}
	}
}
