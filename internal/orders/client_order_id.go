// Package orders places hedge sell orders on Kalshi and generates the client
// order IDs that identify them.
package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxClientOrderIDLength is the maximum length accepted by the API
	MaxClientOrderIDLength = 64

	// HedgeOrderPrefix identifies orders placed by the hedge bot
	HedgeOrderPrefix = "hedge"
)

// Errors for client order ID operations
var (
	ErrClientOrderIDTooLong = errors.New("client order ID exceeds maximum length")
	ErrInvalidClientOrderID = errors.New("invalid client order ID format")
)

// NewHedgeOrderID creates a client order ID for a hedge sell order.
// Format: hedge_{ticker}_{unix}_{8char} (e.g. "hedge_INXD-26AUG30_1756500000_a3f7c2e9").
// The random suffix keeps IDs unique when two runs fire within one second.
func NewHedgeOrderID(ticker string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	now := time.Now().Unix()

	id := fmt.Sprintf("%s_%s_%d_%s", HedgeOrderPrefix, ticker, now, suffix)
	if len(id) > MaxClientOrderIDLength {
		// Long tickers: truncate the ticker, keep the unique tail
		keep := len(ticker) - (len(id) - MaxClientOrderIDLength)
		if keep < 1 {
			keep = 1
		}
		id = fmt.Sprintf("%s_%s_%d_%s", HedgeOrderPrefix, ticker[:keep], now, suffix)
	}

	return id
}

// ValidateClientOrderID validates that a client order ID is well formed
func ValidateClientOrderID(id string) error {
	if id == "" {
		return ErrInvalidClientOrderID
	}

	if len(id) > MaxClientOrderIDLength {
		return fmt.Errorf("%w: ID '%s' is %d characters (max %d)", ErrClientOrderIDTooLong, id, len(id), MaxClientOrderIDLength)
	}

	parts := strings.Split(id, "_")
	if len(parts) < 4 || parts[0] != HedgeOrderPrefix {
		return fmt.Errorf("%w: expected %s_{ticker}_{unix}_{suffix}", ErrInvalidClientOrderID, HedgeOrderPrefix)
	}

	return nil
}

// IsHedgeOrderID reports whether a client order ID was generated by this bot
func IsHedgeOrderID(id string) bool {
	return strings.HasPrefix(id, HedgeOrderPrefix+"_")
}
