package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

func mustProduct(t *testing.T, id, name, category string, stock int64) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(id, name, "", decimal.NewFromInt(10), category, stock, 5)
	require.NoError(t, err)
	return p
}

func TestProductRepository_CreateAndFind(t *testing.T) {
	store := NewStore()
	repo := NewProductRepository(store)
	ctx := context.Background()

	p := mustProduct(t, "PROD001", "MacBook Pro", "Electronics", 25)
	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, p), domain.ErrProductAlreadyExists)

	got, err := repo.FindByID(ctx, "PROD001")
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.StockQuantity)

	got.StockQuantity = 0
	again, err := repo.FindByID(ctx, "PROD001")
	require.NoError(t, err)
	assert.Equal(t, int64(25), again.StockQuantity, "returned records must not alias the store")

	_, err = repo.FindByID(ctx, "PROD999")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductRepository_Search(t *testing.T) {
	store := NewStore()
	repo := NewProductRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, mustProduct(t, "PROD001", "MacBook Pro", "Electronics", 25)))
	require.NoError(t, repo.Create(ctx, mustProduct(t, "PROD005", "Sony Headphones", "Electronics", 0)))
	require.NoError(t, repo.Create(ctx, mustProduct(t, "PROD101", "Levi's Jeans", "Clothing", 30)))
	require.NoError(t, repo.Create(ctx, mustProduct(t, "PROD102", "Old Jacket", "Clothing", 4)))
	require.NoError(t, repo.Deactivate(ctx, "PROD102"))

	tests := []struct {
		name   string
		filter domain.ProductFilter
		want   []string
	}{
		{"all active in insertion order", domain.ProductFilter{}, []string{"PROD001", "PROD005", "PROD101"}},
		{"term is case-insensitive", domain.ProductFilter{Term: "macbook"}, []string{"PROD001"}},
		{"category is exact", domain.ProductFilter{Category: "Clothing"}, []string{"PROD101"}},
		{"category is case-sensitive", domain.ProductFilter{Category: "clothing"}, nil},
		{"in stock only uses raw stock", domain.ProductFilter{Category: "Electronics", InStockOnly: true}, []string{"PROD001"}},
		{"no match", domain.ProductFilter{Term: "tablet"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.filter)
			require.NoError(t, err)
			var ids []string
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	store := NewStore()
	products := NewProductRepository(store)
	reservations := NewReservationRepository(store)
	tx := NewTxManager(store)
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, mustProduct(t, "PROD001", "MacBook Pro", "Electronics", 25)))

	boom := errors.New("boom")
	err := tx.Do(ctx, func(ctx context.Context) error {
		p, err := products.FindByIDForUpdate(ctx, "PROD001")
		if err != nil {
			return err
		}
		p.ReservedQuantity = 10
		if err := products.UpdateQuantities(ctx, p); err != nil {
			return err
		}
		res, err := domain.NewReservation("PROD001", "CUST001", 10, time.Now(), time.Minute)
		if err != nil {
			return err
		}
		if err := reservations.Create(ctx, res); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := products.FindByID(ctx, "PROD001")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.ReservedQuantity)

	_, err = reservations.FindByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)

	res, err := domain.NewReservation("PROD001", "CUST001", 1, time.Now(), time.Minute)
	require.NoError(t, err)
	require.NoError(t, reservations.Create(ctx, res))
	assert.Equal(t, int64(1), res.ID, "rolled back ids are reused")
}

func TestReservationRepository_FindExpiredActive(t *testing.T) {
	store := NewStore()
	repo := NewReservationRepository(store)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	create := func(createdAt time.Time) *domain.Reservation {
		res, err := domain.NewReservation("PROD001", "CUST001", 1, createdAt, 15*time.Minute)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, res))
		return res
	}

	older := create(now.Add(-40 * time.Minute))
	old := create(now.Add(-20 * time.Minute))
	create(now.Add(-5 * time.Minute))
	released := create(now.Add(-60 * time.Minute))
	require.NoError(t, released.Release(now, domain.ReleaseReasonManual))
	require.NoError(t, repo.UpdateStatus(ctx, released))

	got, err := repo.FindExpiredActive(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, older.ID, got[0].ID)
	assert.Equal(t, old.ID, got[1].ID)

	got, err = repo.FindExpiredActive(ctx, now, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMovementLog_Record(t *testing.T) {
	store := NewStore()
	log := NewMovementLog(store)
	ctx := context.Background()

	m := domain.NewStockMovement("PROD001", -5, "sale", 25, 20, time.Now())
	require.NoError(t, log.Record(ctx, m))
	require.NoError(t, log.Record(ctx, domain.NewStockMovement("PROD002", 3, "restock", 0, 3, time.Now())))

	got := log.Movements("PROD001")
	require.Len(t, got, 1)
	assert.Equal(t, int64(-5), got[0].Delta)
	assert.Equal(t, int64(20), got[0].NewStock)
}
