package positions

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"kalshi-hedge-bot/internal/kalshi"
)

var oneHundred = decimal.NewFromInt(100)

// Source enumerates open positions eligible for hedge evaluation
type Source interface {
	ListOpen(ctx context.Context) ([]Position, error)
}

// PortfolioSource derives positions live from the Kalshi portfolio. Positions
// found this way have no persistence handle, so hedges against them are
// recorded in the cross-run registry only.
type PortfolioSource struct {
	client      kalshi.KalshiClient
	minNotional decimal.Decimal
	logger      zerolog.Logger
}

// NewPortfolioSource creates a portfolio-scanning position source. Positions
// whose invested value is below minNotional (dollars) are ignored.
func NewPortfolioSource(client kalshi.KalshiClient, minNotional decimal.Decimal, logger zerolog.Logger) *PortfolioSource {
	return &PortfolioSource{
		client:      client,
		minNotional: minNotional,
		logger:      logger.With().Str("component", "portfolio_source").Logger(),
	}
}

// ListOpen scans the portfolio and returns open long positions above the
// minimum notional threshold, entry prices normalized to dollars.
func (s *PortfolioSource) ListOpen(ctx context.Context) ([]Position, error) {
	resp, err := s.client.GetPositions()
	if err != nil {
		return nil, fmt.Errorf("failed to scan portfolio: %w", err)
	}

	var open []Position
	for _, mp := range resp.MarketPositions {
		if mp.Position <= 0 {
			// settled, short, or empty; nothing to hedge
			continue
		}

		entryPrice := normalizePrice(mp.AvgPrice)
		if entryPrice.LessThanOrEqual(decimal.Zero) {
			s.logger.Warn().Str("ticker", mp.Ticker).Float64("avg_price", mp.AvgPrice).
				Msg("Skipping position with non-positive entry price")
			continue
		}

		pos := Position{
			Ticker:     mp.Ticker,
			EntryPrice: entryPrice,
			Quantity:   mp.Position,
			Status:     StatusOpen,
		}

		if pos.Notional().LessThan(s.minNotional) {
			s.logger.Debug().Str("ticker", mp.Ticker).Str("notional", pos.Notional().StringFixed(2)).
				Msg("Ignoring position below minimum notional")
			continue
		}

		s.logger.Info().Str("ticker", mp.Ticker).Str("invested", pos.Notional().StringFixed(2)).
			Int64("quantity", pos.Quantity).Msg("Tracking position")
		open = append(open, pos)
	}

	return open, nil
}

// normalizePrice converts a wire price to dollars. Kalshi reports average
// prices in cents (50 = $0.50), but a value below 1 is already dollars and is
// kept as is.
func normalizePrice(avgPrice float64) decimal.Decimal {
	price := decimal.NewFromFloat(avgPrice)
	if price.LessThan(decimal.NewFromInt(1)) {
		return price
	}
	return price.Div(oneHundred)
}
