package connect

import (
	"github.com/renzotjpro/ecommerce-support/internal/domain"
	"github.com/renzotjpro/ecommerce-support/internal/usecase"
)

func toProductMessage(p *domain.Product) *Product {
	if p == nil {
		return nil
	}
	return &Product{
		ProductID:         p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price.StringFixed(2),
		Category:          p.Category,
		StockQuantity:     p.StockQuantity,
		ReservedQuantity:  p.ReservedQuantity,
		AvailableQuantity: p.Available(),
		LowStockThreshold: p.LowStockThreshold,
		IsInStock:         p.IsInStock(),
		IsLowStock:        p.IsLowStock(),
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt,
	}
}

func toSummaryMessages(summaries []usecase.ProductSummary) []ProductSummary {
	out := make([]ProductSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, ProductSummary{
			ProductID:         s.ProductID,
			Name:              s.Name,
			Price:             s.Price.StringFixed(2),
			Category:          s.Category,
			AvailableQuantity: s.AvailableQuantity,
			IsInStock:         s.IsInStock,
		})
	}
	return out
}

func toLowStockMessages(items []usecase.LowStockItem) []LowStockItem {
	out := make([]LowStockItem, 0, len(items))
	for _, i := range items {
		out = append(out, LowStockItem{
			ProductID:         i.ProductID,
			Name:              i.Name,
			AvailableQuantity: i.AvailableQuantity,
			Threshold:         i.Threshold,
		})
	}
	return out
}

func toReservationMessage(r *domain.Reservation) *Reservation {
	if r == nil {
		return nil
	}
	return &Reservation{
		ReservationID: r.ID,
		ProductID:     r.ProductID,
		CustomerID:    r.CustomerID,
		Quantity:      r.Quantity,
		Status:        string(r.Status),
		ReleaseReason: string(r.ReleaseReason),
		CreatedAt:     r.CreatedAt,
		ExpiresAt:     r.ExpiresAt,
		ReleasedAt:    r.ReleasedAt,
	}
}
