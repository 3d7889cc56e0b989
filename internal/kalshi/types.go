package kalshi

// MarketPosition represents a single market position in the Kalshi portfolio.
// Prices on the wire are integer cents (50 = $0.50).
type MarketPosition struct {
	Ticker         string  `json:"ticker"`
	Position       int64   `json:"position"`
	AvgPrice       float64 `json:"avg_price"`
	MarketExposure int64   `json:"market_exposure"`
	TotalTraded    int64   `json:"total_traded"`
	RestingOrders  int64   `json:"resting_order_count"`
}

// PositionsResponse represents the portfolio positions response
type PositionsResponse struct {
	MarketPositions []MarketPosition `json:"market_positions"`
	Cursor          string           `json:"cursor"`
}

// Market represents a single Kalshi market
type Market struct {
	Ticker    string `json:"ticker"`
	Status    string `json:"status"`
	YesBid    int64  `json:"yes_bid"`
	YesAsk    int64  `json:"yes_ask"`
	NoBid     int64  `json:"no_bid"`
	NoAsk     int64  `json:"no_ask"`
	LastPrice int64  `json:"last_price"`
	Volume    int64  `json:"volume"`
}

// MarketResponse represents the single-market response
type MarketResponse struct {
	Market Market `json:"market"`
}

// CreateOrderRequest represents an order placement request.
// YesPrice is in cents.
type CreateOrderRequest struct {
	Ticker        string `json:"ticker"`
	ClientOrderID string `json:"client_order_id"`
	Side          string `json:"side"`
	Action        string `json:"action"`
	Count         int64  `json:"count"`
	Type          string `json:"type"`
	YesPrice      int64  `json:"yes_price"`
}

// Order represents a placed order
type Order struct {
	OrderID       string `json:"order_id"`
	ClientOrderID string `json:"client_order_id"`
	Ticker        string `json:"ticker"`
	Status        string `json:"status"`
	Side          string `json:"side"`
	Action        string `json:"action"`
	Count         int64  `json:"count"`
	YesPrice      int64  `json:"yes_price"`
}

// OrderResponse represents a response from placing an order
type OrderResponse struct {
	Order Order `json:"order"`
}
