package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

const idempotencyProcessing = "processing"

type InventoryUseCase interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]ProductSummary, error)
	GetLowStockProducts(ctx context.Context) ([]LowStockItem, error)
	AddProduct(ctx context.Context, input AddProductInput) (*domain.Product, error)
	UpdateStock(ctx context.Context, input UpdateStockInput) (*StockChange, error)
	ReserveStock(ctx context.Context, input ReserveInput) (*domain.Reservation, error)
	ReleaseReservation(ctx context.Context, reservationID int64, idempotencyKey string) (*domain.Reservation, error)
	GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error)
	ExpireReservations(ctx context.Context, limit int) (int, error)
}

type AddProductInput struct {
	ID                string
	Name              string
	Description       string
	Price             decimal.Decimal
	Category          string
	StockQuantity     int64
	LowStockThreshold *int64
}

type UpdateStockInput struct {
	ProductID string
	Delta     int64
	Reason    string
}

type ReserveInput struct {
	ProductID      string
	Quantity       int64
	CustomerID     string
	IdempotencyKey string
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// TxManager runs fn inside a single store transaction carried by ctx.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Metrics interface {
	RecordReservation(ctx context.Context, outcome string)
	RecordRelease(ctx context.Context, reason domain.ReleaseReason)
	RecordStockAdjustment(ctx context.Context, delta int64)
	RecordAuditFailure(ctx context.Context)
}

type InventoryOptions struct {
	ReservationHold          time.Duration
	DefaultLowStockThreshold int64
	IdempotencyTTL           time.Duration
	Logger                   *slog.Logger
	Metrics                  Metrics
	Now                      func() time.Time
}

type inventoryUseCase struct {
	productRepo      domain.ProductRepository
	reservationRepo  domain.ReservationRepository
	movements        domain.MovementRecorder
	idempotency      IdempotencyStore
	txManager        TxManager
	hold             time.Duration
	defaultThreshold int64
	idempotencyTTL   time.Duration
	logger           *slog.Logger
	metrics          Metrics
	now              func() time.Time
}

func NewInventoryUseCase(
	productRepo domain.ProductRepository,
	reservationRepo domain.ReservationRepository,
	movements domain.MovementRecorder,
	idempotency IdempotencyStore,
	txManager TxManager,
	opts InventoryOptions,
) InventoryUseCase {
	uc := &inventoryUseCase{
		productRepo:      productRepo,
		reservationRepo:  reservationRepo,
		movements:        movements,
		idempotency:      idempotency,
		txManager:        txManager,
		hold:             opts.ReservationHold,
		defaultThreshold: opts.DefaultLowStockThreshold,
		idempotencyTTL:   opts.IdempotencyTTL,
		logger:           opts.Logger,
		metrics:          opts.Metrics,
		now:              opts.Now,
	}
	if uc.hold <= 0 {
		uc.hold = domain.DefaultReservationHold
	}
	if uc.defaultThreshold <= 0 {
		uc.defaultThreshold = domain.DefaultLowStockThreshold
	}
	if uc.idempotencyTTL <= 0 {
		uc.idempotencyTTL = 24 * time.Hour
	}
	if uc.logger == nil {
		uc.logger = slog.Default()
	}
	if uc.metrics == nil {
		uc.metrics = noopMetrics{}
	}
	if uc.now == nil {
		uc.now = func() time.Time { return time.Now().UTC() }
	}
	return uc
}

func (uc *inventoryUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := uc.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return product, nil
}

func (uc *inventoryUseCase) SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]ProductSummary, error) {
	products, err := uc.productRepo.Search(ctx, filter)
	if err != nil {
		return nil, storeErr(err)
	}

	summaries := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, toProductSummary(p))
	}
	return summaries, nil
}

func (uc *inventoryUseCase) GetLowStockProducts(ctx context.Context) ([]LowStockItem, error) {
	products, err := uc.productRepo.ListActive(ctx)
	if err != nil {
		return nil, storeErr(err)
	}

	items := make([]LowStockItem, 0)
	for _, p := range products {
		if p.IsLowStock() {
			items = append(items, toLowStockItem(p))
		}
	}
	return items, nil
}

func (uc *inventoryUseCase) AddProduct(ctx context.Context, input AddProductInput) (*domain.Product, error) {
	threshold := uc.defaultThreshold
	if input.LowStockThreshold != nil {
		threshold = *input.LowStockThreshold
	}

	product, err := domain.NewProduct(
		input.ID,
		input.Name,
		input.Description,
		input.Price,
		input.Category,
		input.StockQuantity,
		threshold,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, storeErr(err)
	}

	uc.logger.InfoContext(ctx, "product added",
		slog.String("product_id", product.ID),
		slog.Int64("stock_quantity", product.StockQuantity),
	)
	return product, nil
}

func (uc *inventoryUseCase) UpdateStock(ctx context.Context, input UpdateStockInput) (*StockChange, error) {
	reason := input.Reason
	if reason == "" {
		reason = domain.DefaultMovementReason
	}

	var (
		change   *StockChange
		movement *domain.StockMovement
	)
	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := uc.productRepo.FindByIDForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}

		previous, current, err := product.AdjustStock(input.Delta)
		if err != nil {
			return err
		}

		if err := uc.productRepo.UpdateQuantities(ctx, product); err != nil {
			return err
		}

		movement = domain.NewStockMovement(product.ID, input.Delta, reason, previous, current, uc.now())
		change = &StockChange{
			ProductID:     product.ID,
			PreviousStock: previous,
			NewStock:      current,
			Delta:         input.Delta,
			Reason:        reason,
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}

	uc.metrics.RecordStockAdjustment(ctx, input.Delta)

	if auditErr := uc.movements.Record(ctx, movement); auditErr != nil {
		change.AuditErr = fmt.Errorf("stock movement not recorded: %w", auditErr)
		uc.metrics.RecordAuditFailure(ctx)
		uc.logger.WarnContext(ctx, "stock updated but audit write failed",
			slog.String("product_id", change.ProductID),
			slog.String("movement_id", movement.ID.String()),
			slog.String("error", auditErr.Error()),
		)
	}

	return change, nil
}

func (uc *inventoryUseCase) ReserveStock(ctx context.Context, input ReserveInput) (*domain.Reservation, error) {
	reservation, err := domain.NewReservation(input.ProductID, input.CustomerID, input.Quantity, uc.now(), uc.hold)
	if err != nil {
		uc.metrics.RecordReservation(ctx, "invalid")
		return nil, err
	}

	var lockAcquired bool
	if input.IdempotencyKey != "" {
		locked, err := uc.idempotency.SetNX(ctx, input.IdempotencyKey, idempotencyProcessing, uc.idempotencyTTL)
		if err != nil {
			return nil, storeErr(err)
		}
		if !locked {
			return uc.replayReservation(ctx, input.IdempotencyKey)
		}
		lockAcquired = true
	}

	var committed bool
	defer func() {
		if lockAcquired && !committed {
			_ = uc.idempotency.Del(context.WithoutCancel(ctx), input.IdempotencyKey)
		}
	}()

	err = uc.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := uc.productRepo.FindByIDForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return domain.ErrProductNotFound
		}

		if err := product.Reserve(input.Quantity); err != nil {
			return err
		}

		if err := uc.productRepo.UpdateQuantities(ctx, product); err != nil {
			return err
		}
		return uc.reservationRepo.Create(ctx, reservation)
	})
	if err != nil {
		uc.metrics.RecordReservation(ctx, outcomeOf(err))
		return nil, storeErr(err)
	}

	committed = true
	if input.IdempotencyKey != "" {
		uc.rememberOutcome(ctx, input.IdempotencyKey, reservation.ID)
	}

	uc.metrics.RecordReservation(ctx, "reserved")
	uc.logger.InfoContext(ctx, "stock reserved",
		slog.Int64("reservation_id", reservation.ID),
		slog.String("product_id", reservation.ProductID),
		slog.String("customer_id", reservation.CustomerID),
		slog.Int64("quantity", reservation.Quantity),
		slog.Time("expires_at", reservation.ExpiresAt),
	)
	return reservation, nil
}

func (uc *inventoryUseCase) replayReservation(ctx context.Context, key string) (*domain.Reservation, error) {
	existing, err := uc.idempotency.Get(ctx, key)
	if err != nil {
		return nil, domain.ErrIdempotencyKeyInFlight
	}
	if existing == idempotencyProcessing {
		return nil, domain.ErrIdempotencyKeyInFlight
	}

	id, err := strconv.ParseInt(existing, 10, 64)
	if err != nil {
		return nil, domain.ErrIdempotencyKeyInFlight
	}
	return uc.GetReservation(ctx, id)
}

func (uc *inventoryUseCase) ReleaseReservation(ctx context.Context, reservationID int64, idempotencyKey string) (*domain.Reservation, error) {
	key := releaseKey(idempotencyKey)
	if idempotencyKey != "" {
		if existing, err := uc.idempotency.Get(ctx, key); err == nil {
			if existing != strconv.FormatInt(reservationID, 10) {
				return nil, domain.ErrIdempotencyKeyReused
			}
			return uc.GetReservation(ctx, reservationID)
		}
	}

	reservation, err := uc.release(ctx, reservationID, domain.ReleaseReasonManual)
	if err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		uc.rememberOutcome(ctx, key, reservation.ID)
	}
	return reservation, nil
}

func releaseKey(idempotencyKey string) string {
	return "release:" + idempotencyKey
}

// rememberOutcome stores the reservation id under key once the ledger change
// is committed. The write outlives request cancellation; a lost write leaves
// the key to expire with its TTL.
func (uc *inventoryUseCase) rememberOutcome(ctx context.Context, key string, reservationID int64) {
	err := uc.idempotency.Set(context.WithoutCancel(ctx), key, strconv.FormatInt(reservationID, 10), uc.idempotencyTTL)
	if err != nil {
		uc.logger.WarnContext(ctx, "failed to record idempotency outcome",
			slog.String("idempotency_key", key),
			slog.Int64("reservation_id", reservationID),
			slog.String("error", err.Error()),
		)
	}
}

func (uc *inventoryUseCase) release(ctx context.Context, reservationID int64, reason domain.ReleaseReason) (*domain.Reservation, error) {
	var released *domain.Reservation
	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		reservation, err := uc.reservationRepo.FindByIDForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if !reservation.IsActive() {
			return domain.ErrReservationAlreadyReleased
		}

		product, err := uc.productRepo.FindByIDForUpdate(ctx, reservation.ProductID)
		if err != nil {
			return err
		}

		if err := reservation.Release(uc.now(), reason); err != nil {
			return err
		}
		product.ReleaseReserved(reservation.Quantity)

		if err := uc.productRepo.UpdateQuantities(ctx, product); err != nil {
			return err
		}
		if err := uc.reservationRepo.UpdateStatus(ctx, reservation); err != nil {
			return err
		}
		released = reservation
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}

	uc.metrics.RecordRelease(ctx, reason)
	uc.logger.InfoContext(ctx, "reservation released",
		slog.Int64("reservation_id", released.ID),
		slog.String("product_id", released.ProductID),
		slog.Int64("quantity", released.Quantity),
		slog.String("reason", string(reason)),
	)
	return released, nil
}

func (uc *inventoryUseCase) GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	reservation, err := uc.reservationRepo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, storeErr(err)
	}
	return reservation, nil
}

// ExpireReservations releases active reservations whose hold has passed and
// returns how many were released. Reservations released concurrently by a
// caller are skipped.
func (uc *inventoryUseCase) ExpireReservations(ctx context.Context, limit int) (int, error) {
	expired, err := uc.reservationRepo.FindExpiredActive(ctx, uc.now(), limit)
	if err != nil {
		return 0, storeErr(err)
	}

	var released int
	for _, res := range expired {
		if ctx.Err() != nil {
			return released, ctx.Err()
		}

		if _, err := uc.release(ctx, res.ID, domain.ReleaseReasonExpired); err != nil {
			if errors.Is(err, domain.ErrReservationAlreadyReleased) {
				continue
			}
			uc.logger.ErrorContext(ctx, "failed to expire reservation",
				slog.Int64("reservation_id", res.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		released++
	}
	return released, nil
}

// storeErr keeps ledger errors intact and folds anything else coming from the
// store into ErrStoreUnavailable.
func storeErr(err error) error {
	if err == nil || domain.IsKnown(err) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

func outcomeOf(err error) string {
	switch domain.KindOf(err) {
	case domain.KindInsufficientStock:
		return "insufficient_stock"
	case domain.KindNotFound:
		return "not_found"
	case domain.KindInvalidArgument:
		return "invalid"
	default:
		return "error"
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordReservation(context.Context, string) {}
func (noopMetrics) RecordRelease(context.Context, domain.ReleaseReason) {}
func (noopMetrics) RecordStockAdjustment(context.Context, int64) {}
func (noopMetrics) RecordAuditFailure(context.Context) {}
