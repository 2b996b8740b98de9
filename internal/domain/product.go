package domain

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxProductNameLength     = 255
	DefaultLowStockThreshold = int64(10)
	PriceScale               = int32(2)
)

type Product struct {
	ID                string
	Name              string
	Description       string
	Price             decimal.Decimal
	Category          string
	StockQuantity     int64
	ReservedQuantity  int64
	LowStockThreshold int64
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type ProductFilter struct {
	Term        string
	Category    string
	InStockOnly bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	// FindByIDForUpdate locks the product row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*Product, error)
	Search(ctx context.Context, filter ProductFilter) ([]*Product, error)
	ListActive(ctx context.Context) ([]*Product, error)
	UpdateQuantities(ctx context.Context, product *Product) error
}

func NewProduct(id, name, description string, price decimal.Decimal, category string, stock, threshold int64) (*Product, error) {
	if id == "" {
		return nil, ErrEmptyProductID
	}
	if err := ValidateProductName(name); err != nil {
		return nil, err
	}
	if err := ValidatePrice(price); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	if threshold < 0 {
		return nil, ErrInvalidThreshold
	}

	now := time.Now().UTC()
	return &Product{
		ID:                id,
		Name:              name,
		Description:       description,
		Price:             price,
		Category:          category,
		StockQuantity:     stock,
		ReservedQuantity:  0,
		LowStockThreshold: threshold,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// MaxPrice is the first price the products table (NUMERIC(12, 2)) cannot hold.
var MaxPrice = decimal.New(1, 10)

func ValidatePrice(price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return ErrInvalidPrice
	case !price.Equal(price.Round(PriceScale)):
		return ErrPricePrecision
	case price.GreaterThanOrEqual(MaxPrice):
		return ErrPriceTooLarge
	}
	return nil
}

func ValidateProductName(name string) error {
	if name == "" {
		return ErrEmptyProductName
	}
	if utf8.RuneCountInString(name) > MaxProductNameLength {
		return ErrProductNameTooLong
	}
	return nil
}

func (p *Product) Available() int64 {
	return p.StockQuantity - p.ReservedQuantity
}

func (p *Product) IsInStock() bool {
	return p.Available() > 0
}

func (p *Product) IsLowStock() bool {
	return p.Available() <= p.LowStockThreshold
}

// Reserve moves amount units from available into reserved.
func (p *Product) Reserve(amount int64) error {
	if amount <= 0 {
		return ErrInvalidQuantity
	}
	if available := p.Available(); available < amount {
		return &InsufficientStockError{Available: available, Requested: amount}
	}
	p.ReservedQuantity += amount
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// ReleaseReserved returns amount units to the available pool. The counter is
// floored at zero so a drifted row cannot go negative.
func (p *Product) ReleaseReserved(amount int64) {
	p.ReservedQuantity -= amount
	if p.ReservedQuantity < 0 {
		p.ReservedQuantity = 0
	}
	p.UpdatedAt = time.Now().UTC()
}

// AdjustStock applies a signed delta to the physical stock and returns the
// previous and new totals. Stock may not drop below zero or below what is
// currently held by reservations.
func (p *Product) AdjustStock(delta int64) (previous, current int64, err error) {
	previous = p.StockQuantity
	if delta > 0 && previous > math.MaxInt64-delta {
		return previous, previous, ErrStockOverflow
	}
	next := previous + delta
	if next < 0 {
		return previous, previous, &InsufficientStockError{Available: previous, Requested: -delta}
	}
	if next < p.ReservedQuantity {
		return previous, previous, &InsufficientStockError{Available: p.Available(), Requested: -delta}
	}
	p.StockQuantity = next
	p.UpdatedAt = time.Now().UTC()
	return previous, next, nil
}
