package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

const uniqueViolation = "23505"

const productColumns = `
	product_id, name, description, price::text, category,
	stock_quantity, reserved_quantity, low_stock_threshold, is_active,
	created_at, updated_at
`

type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (
			product_id, name, description, price, category,
			stock_quantity, reserved_quantity, low_stock_threshold, is_active,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := conn(ctx, r.pool).Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price.String(),
		product.Category,
		product.StockQuantity,
		product.ReservedQuantity,
		product.LowStockThreshold,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrProductAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT` + productColumns + `FROM products WHERE product_id = $1`
	return scanProduct(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

// FindByIDForUpdate locks the product row until the surrounding transaction
// ends.
func (r *PostgresProductRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT` + productColumns + `FROM products WHERE product_id = $1 FOR UPDATE`
	return scanProduct(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *PostgresProductRepository) Search(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	var (
		where = []string{"is_active = TRUE"}
		args  []any
	)
	if filter.Term != "" {
		args = append(args, "%"+escapeLike(filter.Term)+"%")
		where = append(where, "name ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	if filter.InStockOnly {
		where = append(where, "stock_quantity > 0")
	}

	query := `SELECT` + productColumns + `FROM products WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at, product_id`
	return r.queryProducts(ctx, query, args...)
}

func (r *PostgresProductRepository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT` + productColumns + `FROM products WHERE is_active = TRUE ORDER BY created_at, product_id`
	return r.queryProducts(ctx, query)
}

func (r *PostgresProductRepository) UpdateQuantities(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET stock_quantity = $2, reserved_quantity = $3, updated_at = $4
		WHERE product_id = $1
	`
	result, err := conn(ctx, r.pool).Exec(ctx, query,
		product.ID,
		product.StockQuantity,
		product.ReservedQuantity,
		product.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Deactivate hides a product from search and reservation.
func (r *PostgresProductRepository) Deactivate(ctx context.Context, id string) error {
	result, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE product_id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&price,
		&p.Category,
		&p.StockQuantity,
		&p.ReservedQuantity,
		&p.LowStockThreshold,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
