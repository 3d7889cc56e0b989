package orders

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"kalshi-hedge-bot/internal/kalshi"
)

var oneHundred = decimal.NewFromInt(100)

// OrderResult reports the outcome of an order placement
type OrderResult struct {
	Success bool
	OrderID string
}

// Executor places hedge sell orders. Any non-success result, including a
// transport error, is a hedge failure for that position; there is no retry.
type Executor interface {
	Sell(ctx context.Context, ticker string, quantity int64, price decimal.Decimal) (OrderResult, error)
}

// KalshiExecutor places limit sell orders through the Kalshi API
type KalshiExecutor struct {
	client kalshi.KalshiClient
	logger zerolog.Logger
}

// NewKalshiExecutor creates a new Kalshi order executor
func NewKalshiExecutor(client kalshi.KalshiClient, logger zerolog.Logger) *KalshiExecutor {
	return &KalshiExecutor{
		client: client,
		logger: logger.With().Str("component", "order_executor").Logger(),
	}
}

// Sell places a limit sell order at the given dollar price
func (e *KalshiExecutor) Sell(ctx context.Context, ticker string, quantity int64, price decimal.Decimal) (OrderResult, error) {
	priceCents := price.Mul(oneHundred).IntPart()
	clientOrderID := NewHedgeOrderID(ticker)

	e.logger.Info().Str("ticker", ticker).Int64("quantity", quantity).
		Str("price", price.StringFixed(2)).Str("client_order_id", clientOrderID).
		Msg("Placing sell order")

	resp, err := e.client.CreateOrder(kalshi.CreateOrderRequest{
		Ticker:        ticker,
		ClientOrderID: clientOrderID,
		Side:          "sell",
		Action:        "sell",
		Count:         quantity,
		Type:          "limit",
		YesPrice:      priceCents,
	})
	if err != nil {
		e.logger.Error().Err(err).Str("ticker", ticker).Msg("Order placement failed")
		return OrderResult{}, err
	}

	if resp.Order.OrderID == "" {
		e.logger.Error().Str("ticker", ticker).Msg("Order placement failed: no order returned")
		return OrderResult{}, nil
	}

	e.logger.Info().Str("ticker", ticker).Str("order_id", resp.Order.OrderID).
		Msg("Order placed successfully")

	return OrderResult{Success: true, OrderID: resp.Order.OrderID}, nil
}

var _ Executor = (*KalshiExecutor)(nil)
