package connect

import "time"

type Product struct {
	ProductID         string    `json:"product_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Price             string    `json:"price"`
	Category          string    `json:"category"`
	StockQuantity     int64     `json:"stock_quantity"`
	ReservedQuantity  int64     `json:"reserved_quantity"`
	AvailableQuantity int64     `json:"available_quantity"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	IsInStock         bool      `json:"is_in_stock"`
	IsLowStock        bool      `json:"is_low_stock"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

type ProductSummary struct {
	ProductID         string `json:"product_id"`
	Name              string `json:"name"`
	Price             string `json:"price"`
	Category          string `json:"category"`
	AvailableQuantity int64  `json:"available_quantity"`
	IsInStock         bool   `json:"is_in_stock"`
}

type LowStockItem struct {
	ProductID         string `json:"product_id"`
	Name              string `json:"name"`
	AvailableQuantity int64  `json:"available_quantity"`
	Threshold         int64  `json:"threshold"`
}

type Reservation struct {
	ReservationID int64      `json:"reservation_id"`
	ProductID     string     `json:"product_id"`
	CustomerID    string     `json:"customer_id"`
	Quantity      int64      `json:"quantity"`
	Status        string     `json:"status"`
	ReleaseReason string     `json:"release_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	ReleasedAt    *time.Time `json:"released_at,omitempty"`
}

type GetProductRequest struct {
	ProductID string `json:"product_id"`
}

type GetProductResponse struct {
	Product *Product `json:"product"`
}

type SearchProductsRequest struct {
	Term        string `json:"term,omitempty"`
	Category    string `json:"category,omitempty"`
	InStockOnly bool   `json:"in_stock_only,omitempty"`
}

type SearchProductsResponse struct {
	Products []ProductSummary `json:"products"`
}

type GetLowStockProductsRequest struct{}

type GetLowStockProductsResponse struct {
	Items []LowStockItem `json:"items"`
}

type AddProductRequest struct {
	ProductID         string `json:"product_id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	Price             string `json:"price"`
	Category          string `json:"category,omitempty"`
	StockQuantity     int64  `json:"stock_quantity"`
	LowStockThreshold *int64 `json:"low_stock_threshold,omitempty"`
}

type AddProductResponse struct {
	Product *Product `json:"product"`
}

type UpdateStockRequest struct {
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
	Reason    string `json:"reason,omitempty"`
}

type UpdateStockResponse struct {
	ProductID     string `json:"product_id"`
	PreviousStock int64  `json:"previous_stock"`
	NewStock      int64  `json:"new_stock"`
	Delta         int64  `json:"delta"`
	Reason        string `json:"reason"`
	// AuditWarning is set when the stock change was applied but could not be
	// written to the movement log.
	AuditWarning string `json:"audit_warning,omitempty"`
}

type ReserveStockRequest struct {
	ProductID      string `json:"product_id"`
	Quantity       int64  `json:"quantity"`
	CustomerID     string `json:"customer_id"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type ReserveStockResponse struct {
	Reservation *Reservation `json:"reservation"`
}

type ReleaseReservationRequest struct {
	ReservationID  int64  `json:"reservation_id"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type ReleaseReservationResponse struct {
	Reservation *Reservation `json:"reservation"`
}

type GetReservationRequest struct {
	ReservationID int64 `json:"reservation_id"`
}

type GetReservationResponse struct {
	Reservation *Reservation `json:"reservation"`
}
