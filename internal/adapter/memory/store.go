// Package memory provides an in-process implementation of the stock store,
// reservation log and movement log. Transactions are serialized on a single
// mutex and rolled back by restoring a snapshot.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

type Store struct {
	mu                sync.Mutex
	products          map[string]*domain.Product
	order             []string
	reservations      map[int64]*domain.Reservation
	nextReservationID int64
	movements         []domain.StockMovement
}

func NewStore() *Store {
	return &Store{
		products:     make(map[string]*domain.Product),
		reservations: make(map[int64]*domain.Reservation),
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*Store)
	return ok
}

// acquire locks the store unless ctx already runs inside a transaction that
// holds the lock.
func (s *Store) acquire(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	products          map[string]*domain.Product
	order             []string
	reservations      map[int64]*domain.Reservation
	nextReservationID int64
	movements         int
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		products:          make(map[string]*domain.Product, len(s.products)),
		order:             append([]string(nil), s.order...),
		reservations:      make(map[int64]*domain.Reservation, len(s.reservations)),
		nextReservationID: s.nextReservationID,
		movements:         len(s.movements),
	}
	for id, p := range s.products {
		snap.products[id] = copyProduct(p)
	}
	for id, r := range s.reservations {
		snap.reservations[id] = copyReservation(r)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.order = snap.order
	s.reservations = snap.reservations
	s.nextReservationID = snap.nextReservationID
	s.movements = s.movements[:snap.movements]
}

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, m.store)); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	defer r.store.acquire(ctx)()

	if _, exists := r.store.products[product.ID]; exists {
		return domain.ErrProductAlreadyExists
	}
	r.store.products[product.ID] = copyProduct(product)
	r.store.order = append(r.store.order, product.ID)
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	defer r.store.acquire(ctx)()

	p, ok := r.store.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return copyProduct(p), nil
}

// FindByIDForUpdate is equivalent to FindByID; the transaction already holds
// the store lock.
func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *ProductRepository) Search(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	defer r.store.acquire(ctx)()

	term := strings.ToLower(filter.Term)
	result := make([]*domain.Product, 0)
	for _, id := range r.store.order {
		p := r.store.products[id]
		if !p.IsActive {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.InStockOnly && p.StockQuantity <= 0 {
			continue
		}
		result = append(result, copyProduct(p))
	}
	return result, nil
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	return r.Search(ctx, domain.ProductFilter{})
}

func (r *ProductRepository) UpdateQuantities(ctx context.Context, product *domain.Product) error {
	defer r.store.acquire(ctx)()

	p, ok := r.store.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.StockQuantity = product.StockQuantity
	p.ReservedQuantity = product.ReservedQuantity
	p.UpdatedAt = product.UpdatedAt
	return nil
}

// Deactivate hides a product from search and reservation.
func (r *ProductRepository) Deactivate(ctx context.Context, id string) error {
	defer r.store.acquire(ctx)()

	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	return nil
}

type ReservationRepository struct {
	store *Store
}

func NewReservationRepository(store *Store) *ReservationRepository {
	return &ReservationRepository{store: store}
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	defer r.store.acquire(ctx)()

	r.store.nextReservationID++
	reservation.ID = r.store.nextReservationID
	r.store.reservations[reservation.ID] = copyReservation(reservation)
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	defer r.store.acquire(ctx)()

	res, ok := r.store.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	return copyReservation(res), nil
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.FindByID(ctx, id)
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, reservation *domain.Reservation) error {
	defer r.store.acquire(ctx)()

	res, ok := r.store.reservations[reservation.ID]
	if !ok {
		return domain.ErrReservationNotFound
	}
	res.Status = reservation.Status
	res.ReleaseReason = reservation.ReleaseReason
	res.ReleasedAt = copyTime(reservation.ReleasedAt)
	return nil
}

func (r *ReservationRepository) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*domain.Reservation, error) {
	defer r.store.acquire(ctx)()

	expired := make([]*domain.Reservation, 0)
	for _, res := range r.store.reservations {
		if res.IsActive() && res.IsExpired(now) {
			expired = append(expired, copyReservation(res))
		}
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].ExpiresAt.Before(expired[j].ExpiresAt)
	})
	if limit > 0 && len(expired) > limit {
		expired = expired[:limit]
	}
	return expired, nil
}

type MovementLog struct {
	store *Store
}

func NewMovementLog(store *Store) *MovementLog {
	return &MovementLog{store: store}
}

func (l *MovementLog) Record(ctx context.Context, movement *domain.StockMovement) error {
	defer l.store.acquire(ctx)()

	l.store.movements = append(l.store.movements, *movement)
	return nil
}

// Movements returns the recorded movements for productID in insertion order.
func (l *MovementLog) Movements(productID string) []domain.StockMovement {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	var result []domain.StockMovement
	for _, m := range l.store.movements {
		if m.ProductID == productID {
			result = append(result, m)
		}
	}
	return result
}

func copyProduct(p *domain.Product) *domain.Product {
	c := *p
	return &c
}

func copyReservation(r *domain.Reservation) *domain.Reservation {
	c := *r
	c.ReleasedAt = copyTime(r.ReleasedAt)
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
