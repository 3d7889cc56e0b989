// Package market provides the price oracle: the best immediately-sellable
// price for a ticker, fetched fresh per evaluation and never cached.
package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"kalshi-hedge-bot/internal/kalshi"
)

// ErrQuoteUnavailable signals that the market has no usable sell-side quote.
// The caller skips the position for this run; it is not an error state on the
// position itself.
var ErrQuoteUnavailable = errors.New("no quote available")

var oneHundred = decimal.NewFromInt(100)

// Oracle supplies the current sell-side price for a ticker, in dollars
type Oracle interface {
	SellPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// KalshiOracle reads the yes_bid from the Kalshi market endpoint. The bid is
// the side a held yes position actually sells into.
type KalshiOracle struct {
	client kalshi.KalshiClient
	logger zerolog.Logger
}

// NewKalshiOracle creates a new price oracle backed by the Kalshi API
func NewKalshiOracle(client kalshi.KalshiClient, logger zerolog.Logger) *KalshiOracle {
	return &KalshiOracle{
		client: client,
		logger: logger.With().Str("component", "price_oracle").Logger(),
	}
}

// SellPrice returns the current yes_bid in dollars, or ErrQuoteUnavailable
// when the market has no bid
func (o *KalshiOracle) SellPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	resp, err := o.client.GetMarket(ticker)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch market %s: %w", ticker, err)
	}

	if resp.Market.YesBid <= 0 {
		o.logger.Warn().Str("ticker", ticker).Msg("Market has no yes bid")
		return decimal.Zero, ErrQuoteUnavailable
	}

	price := decimal.NewFromInt(resp.Market.YesBid).Div(oneHundred)
	o.logger.Info().Str("ticker", ticker).Str("yes_bid", price.StringFixed(2)).Msg("Fetched current price")

	return price, nil
}

var _ Oracle = (*KalshiOracle)(nil)
