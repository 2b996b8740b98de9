package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

// PostgresMovementRecorder appends stock movements to the stock_movements
// table. Rows are never updated.
type PostgresMovementRecorder struct {
	pool *pgxpool.Pool
}

func NewPostgresMovementRecorder(pool *pgxpool.Pool) *PostgresMovementRecorder {
	return &PostgresMovementRecorder{pool: pool}
}

func (r *PostgresMovementRecorder) Record(ctx context.Context, movement *domain.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, delta, reason, previous_stock, new_stock, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := conn(ctx, r.pool).Exec(ctx, query,
		movement.ID,
		movement.ProductID,
		movement.Delta,
		movement.Reason,
		movement.PreviousStock,
		movement.NewStock,
		movement.RecordedAt,
	)
	return err
}

// CountByProduct returns how many movements exist for productID.
func (r *PostgresMovementRecorder) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&n)
	return n, err
}
