package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

type ProductSummary struct {
	ProductID         string
	Name              string
	Price             decimal.Decimal
	Category          string
	AvailableQuantity int64
	IsInStock         bool
}

type LowStockItem struct {
	ProductID         string
	Name              string
	AvailableQuantity int64
	Threshold         int64
}

// StockChange is the outcome of a committed stock update. AuditErr is set when
// the movement could not be written to the audit sink; the update itself
// still stands.
type StockChange struct {
	ProductID     string
	PreviousStock int64
	NewStock      int64
	Delta         int64
	Reason        string
	AuditErr      error
}

func toProductSummary(p *domain.Product) ProductSummary {
	return ProductSummary{
		ProductID:         p.ID,
		Name:              p.Name,
		Price:             p.Price,
		Category:          p.Category,
		AvailableQuantity: p.Available(),
		IsInStock:         p.IsInStock(),
	}
}

func toLowStockItem(p *domain.Product) LowStockItem {
	return LowStockItem{
		ProductID:         p.ID,
		Name:              p.Name,
		AvailableQuantity: p.Available(),
		Threshold:         p.LowStockThreshold,
	}
}
