package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrReservationNotFound = errors.New("reservation not found")
)

var (
	ErrEmptyProductID           = errors.New("product id cannot be empty")
	ErrEmptyProductName         = errors.New("product name cannot be empty")
	ErrProductNameTooLong       = errors.New("product name must be 255 characters or less")
	ErrInvalidPrice             = errors.New("price must be non-negative")
	ErrPricePrecision           = errors.New("price must have at most 2 decimal places")
	ErrPriceTooLarge            = errors.New("price must be below 10000000000")
	ErrInvalidQuantity          = errors.New("quantity must be positive")
	ErrInvalidStock             = errors.New("stock quantity must be non-negative")
	ErrStockOverflow            = errors.New("stock quantity would exceed the supported maximum")
	ErrInvalidThreshold         = errors.New("low stock threshold must be non-negative")
	ErrEmptyCustomerID          = errors.New("customer id cannot be empty")
	ErrInvalidReservationStatus = errors.New("invalid reservation status")
)

var (
	ErrProductAlreadyExists       = errors.New("product already exists")
	ErrReservationAlreadyReleased = errors.New("reservation already released")
	ErrIdempotencyKeyInFlight     = errors.New("request with this idempotency key is still processing")
	ErrIdempotencyKeyReused       = errors.New("idempotency key already used for a different reservation")
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStoreUnavailable  = errors.New("stock store unavailable")
)

// InsufficientStockError reports the quantities involved in a rejected change.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// Kind classifies ledger failures for callers that render them.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalidArgument
	KindInsufficientStock
	KindStoreUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindInsufficientStock:
		return "INSUFFICIENT_STOCK"
	case KindStoreUnavailable:
		return "STORE_UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrReservationNotFound):
		return KindNotFound
	case errors.Is(err, ErrProductAlreadyExists),
		errors.Is(err, ErrReservationAlreadyReleased),
		errors.Is(err, ErrIdempotencyKeyInFlight),
		errors.Is(err, ErrIdempotencyKeyReused):
		return KindConflict
	case errors.Is(err, ErrEmptyProductID),
		errors.Is(err, ErrEmptyProductName),
		errors.Is(err, ErrProductNameTooLong),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrPricePrecision),
		errors.Is(err, ErrPriceTooLarge),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidStock),
		errors.Is(err, ErrStockOverflow),
		errors.Is(err, ErrInvalidThreshold),
		errors.Is(err, ErrEmptyCustomerID),
		errors.Is(err, ErrInvalidReservationStatus):
		return KindInvalidArgument
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	default:
		return KindUnknown
	}
}

// IsKnown reports whether err already belongs to the ledger taxonomy.
func IsKnown(err error) bool {
	return KindOf(err) != KindUnknown
}
