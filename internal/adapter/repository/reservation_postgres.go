package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

const reservationColumns = `
	id, product_id, customer_id, quantity, status, release_reason,
	created_at, expires_at, released_at
`

type PostgresReservationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReservationRepository(pool *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{pool: pool}
}

func (r *PostgresReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (product_id, customer_id, quantity, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		reservation.ProductID,
		reservation.CustomerID,
		reservation.Quantity,
		string(reservation.Status),
		reservation.CreatedAt,
		reservation.ExpiresAt,
	).Scan(&reservation.ID)
}

func (r *PostgresReservationRepository) FindByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `SELECT` + reservationColumns + `FROM reservations WHERE id = $1`
	return scanReservation(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *PostgresReservationRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `SELECT` + reservationColumns + `FROM reservations WHERE id = $1 FOR UPDATE`
	return scanReservation(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *PostgresReservationRepository) UpdateStatus(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET status = $2, release_reason = $3, released_at = $4
		WHERE id = $1
	`
	result, err := conn(ctx, r.pool).Exec(ctx, query,
		reservation.ID,
		string(reservation.Status),
		nullableReason(reservation.ReleaseReason),
		reservation.ReleasedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *PostgresReservationRepository) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*domain.Reservation, error) {
	query := `SELECT` + reservationColumns + `
		FROM reservations
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at
		LIMIT $3
	`
	rows, err := conn(ctx, r.pool).Query(ctx, query, string(domain.ReservationStatusActive), now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var (
		res    domain.Reservation
		status string
		reason *string
	)
	err := row.Scan(
		&res.ID,
		&res.ProductID,
		&res.CustomerID,
		&res.Quantity,
		&status,
		&reason,
		&res.CreatedAt,
		&res.ExpiresAt,
		&res.ReleasedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	if res.Status, err = domain.ParseReservationStatus(status); err != nil {
		return nil, err
	}
	if reason != nil {
		res.ReleaseReason = domain.ReleaseReason(*reason)
	}
	return &res, nil
}

func nullableReason(reason domain.ReleaseReason) *string {
	if reason == "" {
		return nil
	}
	s := string(reason)
	return &s
}
