// Package assistant renders ledger operations as plain-language replies for
// the support agents. Tools never return errors; every failure becomes a
// sentence the agent can relay to the customer.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
	"github.com/renzotjpro/ecommerce-support/internal/usecase"
)

const defaultAdjustmentReason = "manual adjustment"

var invalidArguments = []error{
	domain.ErrEmptyProductID,
	domain.ErrEmptyProductName,
	domain.ErrProductNameTooLong,
	domain.ErrInvalidPrice,
	domain.ErrPricePrecision,
	domain.ErrPriceTooLarge,
	domain.ErrInvalidQuantity,
	domain.ErrInvalidStock,
	domain.ErrStockOverflow,
	domain.ErrInvalidThreshold,
	domain.ErrEmptyCustomerID,
}

type Tools struct {
	inventory usecase.InventoryUseCase
	hold      time.Duration
	logger    *slog.Logger
}

func NewTools(inventory usecase.InventoryUseCase, hold time.Duration, logger *slog.Logger) *Tools {
	if hold <= 0 {
		hold = domain.DefaultReservationHold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tools{inventory: inventory, hold: hold, logger: logger}
}

func (t *Tools) CheckAvailability(ctx context.Context, productID string) string {
	p, err := t.inventory.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Sprintf("Sorry, I couldn't find product %s. %s", productID, t.describe(err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s (%s)\n%s\n\n", p.Name, p.ID, stockStatus(p.IsInStock()))
	b.WriteString("Stock Information:\n")
	fmt.Fprintf(&b, "- Available: %d units\n", p.Available())
	fmt.Fprintf(&b, "- Reserved: %d units\n", p.ReservedQuantity)
	fmt.Fprintf(&b, "- Total Stock: %d units\n", p.StockQuantity)
	fmt.Fprintf(&b, "- Price: %s\n", formatPrice(p.Price))
	fmt.Fprintf(&b, "- Category: %s\n", p.Category)
	if p.IsLowStock() && p.IsInStock() {
		fmt.Fprintf(&b, "\nLOW STOCK WARNING: Only %d units remaining!", p.Available())
	}
	return b.String()
}

func (t *Tools) ProductDetails(ctx context.Context, productID string) string {
	p, err := t.inventory.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Sprintf("Product %s not found. %s", productID, t.describe(err))
	}

	var b strings.Builder
	b.WriteString("Product Details\n\n")
	fmt.Fprintf(&b, "Name: %s\nID: %s\nPrice: %s\nCategory: %s\n\n", p.Name, p.ID, formatPrice(p.Price), p.Category)
	fmt.Fprintf(&b, "Description:\n%s\n\n", p.Description)
	b.WriteString("Inventory Status:\n")
	fmt.Fprintf(&b, "- Available: %d units\n", p.Available())
	fmt.Fprintf(&b, "- Reserved: %d units\n", p.ReservedQuantity)
	fmt.Fprintf(&b, "- Total in Stock: %d units\n", p.StockQuantity)
	fmt.Fprintf(&b, "- Status: %s\n", stockStatus(p.IsInStock()))
	if p.IsLowStock() && p.IsInStock() {
		fmt.Fprintf(&b, "\nLOW STOCK: Only %d units left!", p.Available())
	}
	return b.String()
}

func (t *Tools) SearchByName(ctx context.Context, term string, inStockOnly bool) string {
	items, err := t.inventory.SearchProducts(ctx, domain.ProductFilter{Term: term, InStockOnly: inStockOnly})
	if err != nil {
		return "Error searching products: " + t.describe(err)
	}
	if len(items) == 0 {
		return fmt.Sprintf("No products found matching '%s'.", term)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d product(s) matching '%s':\n\n", len(items), term)
	for _, item := range items {
		writeSummary(&b, item)
		fmt.Fprintf(&b, "   Category: %s\n\n", item.Category)
	}
	return b.String()
}

func (t *Tools) SearchByCategory(ctx context.Context, category string, inStockOnly bool) string {
	items, err := t.inventory.SearchProducts(ctx, domain.ProductFilter{Category: category, InStockOnly: inStockOnly})
	if err != nil {
		return "Error searching category: " + t.describe(err)
	}
	if len(items) == 0 {
		return fmt.Sprintf("No products found in category '%s'.", category)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Products in '%s' category (%d items):\n\n", category, len(items))
	for _, item := range items {
		writeSummary(&b, item)
		b.WriteString("\n")
	}
	return b.String()
}

func (t *Tools) ReserveProduct(ctx context.Context, productID string, quantity int64, customerID string) string {
	r, err := t.inventory.ReserveStock(ctx, usecase.ReserveInput{
		ProductID:  productID,
		Quantity:   quantity,
		CustomerID: customerID,
	})
	if err != nil {
		return "Unable to reserve product: " + t.describe(err)
	}

	var b strings.Builder
	b.WriteString("Reservation Successful!\n\n")
	fmt.Fprintf(&b, "Product ID: %s\n", r.ProductID)
	fmt.Fprintf(&b, "Quantity Reserved: %d units\n", r.Quantity)
	fmt.Fprintf(&b, "Customer: %s\n", r.CustomerID)
	fmt.Fprintf(&b, "Reservation ID: %d\n\n", r.ID)
	fmt.Fprintf(&b, "This reservation will expire in %s: %s\n", formatHold(t.hold), r.ExpiresAt.Format(time.RFC3339))
	b.WriteString("Please complete your purchase before the reservation expires.")
	return b.String()
}

func (t *Tools) CancelReservation(ctx context.Context, reservationID int64) string {
	if _, err := t.inventory.ReleaseReservation(ctx, reservationID, ""); err != nil {
		return "Unable to cancel reservation: " + t.describe(err)
	}
	return fmt.Sprintf("Reservation #%d has been cancelled. Stock returned to inventory.", reservationID)
}

func (t *Tools) UpdateProductStock(ctx context.Context, productID string, change int64, reason string) string {
	if reason == "" {
		reason = defaultAdjustmentReason
	}
	result, err := t.inventory.UpdateStock(ctx, usecase.UpdateStockInput{
		ProductID: productID,
		Delta:     change,
		Reason:    reason,
	})
	if err != nil {
		return "Unable to update stock: " + t.describe(err)
	}

	action := "added to"
	if change < 0 {
		action = "removed from"
		change = -change
	}

	var b strings.Builder
	b.WriteString("Stock Updated Successfully\n\n")
	fmt.Fprintf(&b, "Product ID: %s\n", result.ProductID)
	fmt.Fprintf(&b, "Previous Stock: %d units\n", result.PreviousStock)
	fmt.Fprintf(&b, "Change: %d units %s inventory\n", change, action)
	fmt.Fprintf(&b, "New Stock: %d units\n", result.NewStock)
	fmt.Fprintf(&b, "Reason: %s\n", result.Reason)
	if result.AuditErr != nil {
		b.WriteString("\nNote: the change was saved but could not be written to the audit log.\n")
	}
	return b.String()
}

func (t *Tools) LowStockAlerts(ctx context.Context) string {
	items, err := t.inventory.GetLowStockProducts(ctx)
	if err != nil {
		return "Error checking stock levels: " + t.describe(err)
	}
	if len(items) == 0 {
		return "All products are adequately stocked!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "LOW STOCK ALERT - %d product(s) need restocking:\n\n", len(items))
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", item.Name, item.ProductID)
		fmt.Fprintf(&b, "   Available: %d units\n", item.AvailableQuantity)
		fmt.Fprintf(&b, "   Threshold: %d units\n", item.Threshold)
		b.WriteString("   Action needed: Restock recommended\n\n")
	}
	return b.String()
}

func (t *Tools) AddNewProduct(ctx context.Context, productID, name, description, price, category string, initialStock int64) string {
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return fmt.Sprintf("Unable to add product: %q is not a valid price.", price)
	}

	p, err := t.inventory.AddProduct(ctx, usecase.AddProductInput{
		ID:            productID,
		Name:          name,
		Description:   description,
		Price:         amount,
		Category:      category,
		StockQuantity: initialStock,
	})
	if err != nil {
		return "Unable to add product: " + t.describe(err)
	}

	var b strings.Builder
	b.WriteString("New Product Added Successfully!\n\n")
	fmt.Fprintf(&b, "Product ID: %s\n", p.ID)
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Price: %s\n", formatPrice(p.Price))
	fmt.Fprintf(&b, "Category: %s\n", p.Category)
	fmt.Fprintf(&b, "Initial Stock: %d units\n\n", p.StockQuantity)
	b.WriteString("The product is now available in the inventory system.")
	return b.String()
}

// describe turns a ledger error into a sentence. Unclassified errors are
// logged and replaced with a generic apology so internals never leak.
func (t *Tools) describe(err error) string {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		if errors.Is(err, domain.ErrReservationNotFound) {
			return "That reservation does not exist."
		}
		return "That product does not exist or is no longer offered."
	case domain.KindConflict:
		switch {
		case errors.Is(err, domain.ErrReservationAlreadyReleased):
			return "This reservation was already cancelled or has expired."
		case errors.Is(err, domain.ErrProductAlreadyExists):
			return "A product with this ID already exists."
		default:
			return "This request is already being processed. Please try again shortly."
		}
	case domain.KindInvalidArgument:
		for _, sentinel := range invalidArguments {
			if errors.Is(err, sentinel) {
				return capitalize(sentinel.Error()) + "."
			}
		}
		return "The request is not valid."
	case domain.KindInsufficientStock:
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			return fmt.Sprintf("Insufficient stock. Only %d units available, %d requested.",
				insufficient.Available, insufficient.Requested)
		}
		return "Insufficient stock."
	case domain.KindStoreUnavailable:
		return "The inventory system is temporarily unavailable. Please try again later."
	default:
		t.logger.Error("unexpected inventory error", slog.String("error", err.Error()))
		return "Something went wrong while checking the inventory."
	}
}

func writeSummary(b *strings.Builder, item usecase.ProductSummary) {
	fmt.Fprintf(b, "%s %s (ID: %s)\n", stockMarker(item.IsInStock), item.Name, item.ProductID)
	fmt.Fprintf(b, "   Price: %s | Available: %d units\n", formatPrice(item.Price), item.AvailableQuantity)
}

func stockStatus(inStock bool) string {
	if inStock {
		return "IN STOCK"
	}
	return "OUT OF STOCK"
}

func stockMarker(inStock bool) string {
	if inStock {
		return "[in stock]"
	}
	return "[out of stock]"
}

func formatPrice(p decimal.Decimal) string {
	return "$" + p.StringFixed(2)
}

func formatHold(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return d.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
