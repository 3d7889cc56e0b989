package market

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"kalshi-hedge-bot/internal/kalshi"
)

func TestSellPriceReturnsYesBidInDollars(t *testing.T) {
	mock := kalshi.NewMockClient()
	mock.SetMarket(kalshi.Market{Ticker: "TEST-MKT", Status: "active", YesBid: 75, YesAsk: 77})

	oracle := NewKalshiOracle(mock, zerolog.Nop())

	price, err := oracle.SellPrice(context.Background(), "TEST-MKT")
	if err != nil {
		t.Fatalf("SellPrice returned error: %v", err)
	}
	if !price.Equal(decimal.NewFromFloat(0.75)) {
		t.Errorf("SellPrice = %s, want 0.75", price)
	}
}

func TestSellPriceUnavailableWhenNoBid(t *testing.T) {
	mock := kalshi.NewMockClient()
	mock.SetMarket(kalshi.Market{Ticker: "DEAD-MKT", Status: "active", YesBid: 0})

	oracle := NewKalshiOracle(mock, zerolog.Nop())

	_, err := oracle.SellPrice(context.Background(), "DEAD-MKT")
	if !errors.Is(err, ErrQuoteUnavailable) {
		t.Errorf("SellPrice error = %v, want ErrQuoteUnavailable", err)
	}
}

func TestSellPriceWrapsFetchError(t *testing.T) {
	mock := kalshi.NewMockClient()
	mock.MarketErr = errors.New("timeout")

	oracle := NewKalshiOracle(mock, zerolog.Nop())

	_, err := oracle.SellPrice(context.Background(), "TEST-MKT")
	if err == nil {
		t.Fatal("SellPrice swallowed the fetch error")
	}
	if errors.Is(err, ErrQuoteUnavailable) {
		t.Error("transport error reported as ErrQuoteUnavailable")
	}
}

func TestSellPriceUnknownTicker(t *testing.T) {
	oracle := NewKalshiOracle(kalshi.NewMockClient(), zerolog.Nop())

	if _, err := oracle.SellPrice(context.Background(), "NOPE"); err == nil {
		t.Fatal("SellPrice succeeded for unknown ticker")
	}
}
