package database

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"kalshi-hedge-bot/internal/positions"
)

// Repository handles positions table operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreatePosition inserts a new open position and returns its ID
func (r *Repository) CreatePosition(ctx context.Context, record *PositionRecord) (int64, error) {
	query := `
		INSERT INTO positions (ticker, entry_price, quantity, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		record.Ticker, record.EntryPrice, record.Quantity, record.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create position: %w", err)
	}

	return id, nil
}

// GetPosition fetches a single position by ID
func (r *Repository) GetPosition(ctx context.Context, id int64) (*PositionRecord, error) {
	query := `
		SELECT id, ticker, entry_price, quantity, status, hedged_at, created_at, updated_at
		FROM positions
		WHERE id = $1`

	var record PositionRecord
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.Ticker, &record.EntryPrice, &record.Quantity,
		&record.Status, &record.HedgedAt, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get position %d: %w", id, err)
	}

	return &record, nil
}

// ListOpenPositions returns all OPEN positions whose invested value meets the
// minimum notional threshold
func (r *Repository) ListOpenPositions(ctx context.Context, minNotional decimal.Decimal) ([]PositionRecord, error) {
	query := `
		SELECT id, ticker, entry_price, quantity, status, hedged_at, created_at, updated_at
		FROM positions
		WHERE status = 'OPEN' AND entry_price * quantity >= $1
		ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query, minNotional)
	if err != nil {
		return nil, fmt.Errorf("failed to list open positions: %w", err)
	}
	defer rows.Close()

	var records []PositionRecord
	for rows.Next() {
		var record PositionRecord
		if err := rows.Scan(
			&record.ID, &record.Ticker, &record.EntryPrice, &record.Quantity,
			&record.Status, &record.HedgedAt, &record.CreatedAt, &record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// MarkHedged records a completed hedge: the position transitions to HEDGED
// and its quantity drops to the residual that remains after the sale
func (r *Repository) MarkHedged(ctx context.Context, id int64, remainingQuantity int64) error {
	query := `
		UPDATE positions
		SET status = 'HEDGED', quantity = $2, hedged_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id, remainingQuantity)
	if err != nil {
		return fmt.Errorf("failed to mark position %d hedged: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("position %d not found", id)
	}

	log.Printf("Updated position %d in database: HEDGED, %d contracts remaining", id, remainingQuantity)
	return nil
}

// Source adapts the repository to the position source contract. Positions
// read this way carry their row ID as the persistence handle.
type Source struct {
	repo        *Repository
	minNotional decimal.Decimal
}

// NewSource creates a database-backed position source
func NewSource(repo *Repository, minNotional decimal.Decimal) *Source {
	return &Source{repo: repo, minNotional: minNotional}
}

// ListOpen returns the open tracked positions above the minimum notional
func (s *Source) ListOpen(ctx context.Context) ([]positions.Position, error) {
	records, err := s.repo.ListOpenPositions(ctx, s.minNotional)
	if err != nil {
		return nil, err
	}

	result := make([]positions.Position, 0, len(records))
	for _, record := range records {
		id := record.ID
		result = append(result, positions.Position{
			Ticker:     record.Ticker,
			EntryPrice: record.EntryPrice,
			Quantity:   record.Quantity,
			Status:     record.Status,
			ExternalID: &id,
		})
	}

	return result, nil
}

var _ positions.Source = (*Source)(nil)
