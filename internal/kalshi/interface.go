package kalshi

// KalshiClient defines the interface for Kalshi API operations
type KalshiClient interface {
	GetPositions() (*PositionsResponse, error)
	GetMarket(ticker string) (*MarketResponse, error)
	CreateOrder(req CreateOrderRequest) (*OrderResponse, error)
}

// Ensure both Client and MockClient implement KalshiClient
var _ KalshiClient = (*Client)(nil)
var _ KalshiClient = (*MockClient)(nil)
