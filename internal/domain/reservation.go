package domain

import (
	"context"
	"time"
)

const DefaultReservationHold = 15 * time.Minute

type ReservationStatus string

const (
	ReservationStatusActive   ReservationStatus = "active"
	ReservationStatusReleased ReservationStatus = "released"
)

func (s ReservationStatus) IsValid() bool {
	return s == ReservationStatusActive || s == ReservationStatusReleased
}

func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidReservationStatus
	}
	return status, nil
}

// ReleaseReason records why an active hold was returned to the pool.
type ReleaseReason string

const (
	ReleaseReasonManual  ReleaseReason = "manual"
	ReleaseReasonExpired ReleaseReason = "expired"
)

type Reservation struct {
	ID            int64
	ProductID     string
	CustomerID    string
	Quantity      int64
	Status        ReservationStatus
	ReleaseReason ReleaseReason
	CreatedAt     time.Time
	ExpiresAt     time.Time
	ReleasedAt    *time.Time
}

type ReservationRepository interface {
	// Create inserts the reservation and assigns its ID.
	Create(ctx context.Context, reservation *Reservation) error
	FindByID(ctx context.Context, id int64) (*Reservation, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*Reservation, error)
	UpdateStatus(ctx context.Context, reservation *Reservation) error
	FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*Reservation, error)
}

func NewReservation(productID, customerID string, quantity int64, now time.Time, hold time.Duration) (*Reservation, error) {
	if productID == "" {
		return nil, ErrEmptyProductID
	}
	if customerID == "" {
		return nil, ErrEmptyCustomerID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if hold <= 0 {
		hold = DefaultReservationHold
	}

	now = now.UTC()
	return &Reservation{
		ProductID:  productID,
		CustomerID: customerID,
		Quantity:   quantity,
		Status:     ReservationStatusActive,
		CreatedAt:  now,
		ExpiresAt:  now.Add(hold),
	}, nil
}

func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// IsExpired reports whether the hold deadline has passed. Expiry is a stored
// deadline; it does not change Status on its own.
func (r *Reservation) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

func (r *Reservation) Release(now time.Time, reason ReleaseReason) error {
	if !r.IsActive() {
		return ErrReservationAlreadyReleased
	}
	released := now.UTC()
	r.Status = ReservationStatusReleased
	r.ReleaseReason = reason
	r.ReleasedAt = &released
	return nil
}
