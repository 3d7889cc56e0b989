package database

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionRecord represents a row in the positions table
type PositionRecord struct {
	ID         int64           `json:"id"`
	Ticker     string          `json:"ticker"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	Quantity   int64           `json:"quantity"`
	Status     string          `json:"status"`
	HedgedAt   *time.Time      `json:"hedged_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
