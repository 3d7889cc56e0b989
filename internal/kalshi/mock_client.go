package kalshi

import (
	"fmt"
	"sync"
)

// MockClient simulates the Kalshi API for testing and mock mode.
// Fixtures are set per ticker; unset tickers return errors like the real API.
type MockClient struct {
	mu        sync.RWMutex
	positions []MarketPosition
	markets   map[string]Market
	orders    []CreateOrderRequest

	PositionsErr error
	MarketErr    error
	OrderErr     error

	orderCounter int64
}

// NewMockClient creates a new mock Kalshi client
func NewMockClient() *MockClient {
	return &MockClient{
		markets: make(map[string]Market),
	}
}

// SetPositions sets the portfolio positions returned by GetPositions
func (m *MockClient) SetPositions(positions []MarketPosition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions = positions
}

// SetMarket sets the market returned by GetMarket for a ticker
func (m *MockClient) SetMarket(market Market) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markets[market.Ticker] = market
}

// PlacedOrders returns all orders placed through the mock
func (m *MockClient) PlacedOrders() []CreateOrderRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	orders := make([]CreateOrderRequest, len(m.orders))
	copy(orders, m.orders)
	return orders
}

func (m *MockClient) GetPositions() (*PositionsResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.PositionsErr != nil {
		return nil, m.PositionsErr
	}

	return &PositionsResponse{MarketPositions: m.positions}, nil
}

func (m *MockClient) GetMarket(ticker string) (*MarketResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.MarketErr != nil {
		return nil, m.MarketErr
	}

	market, ok := m.markets[ticker]
	if !ok {
		return nil, fmt.Errorf("API error (status 404): market %s not found", ticker)
	}

	return &MarketResponse{Market: market}, nil
}

func (m *MockClient) CreateOrder(req CreateOrderRequest) (*OrderResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.OrderErr != nil {
		return nil, m.OrderErr
	}

	m.orders = append(m.orders, req)
	m.orderCounter++

	return &OrderResponse{
		Order: Order{
			OrderID:       fmt.Sprintf("mock-order-%d", m.orderCounter),
			ClientOrderID: req.ClientOrderID,
			Ticker:        req.Ticker,
			Status:        "resting",
			Side:          req.Side,
			Action:        req.Action,
			Count:         req.Count,
			YesPrice:      req.YesPrice,
		},
	}, nil
}
