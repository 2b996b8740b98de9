package connect

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/renzotjpro/ecommerce-support/internal/adapter/memory"
	"github.com/renzotjpro/ecommerce-support/internal/adapter/redis"
	"github.com/renzotjpro/ecommerce-support/internal/domain"
	"github.com/renzotjpro/ecommerce-support/internal/usecase"
)

// mockInventoryUseCase is a test double for usecase.InventoryUseCase.
type mockInventoryUseCase struct {
	usecase.InventoryUseCase
	getProductFn  func(ctx context.Context, id string) (*domain.Product, error)
	updateStockFn func(ctx context.Context, input usecase.UpdateStockInput) (*usecase.StockChange, error)
	reserveFn     func(ctx context.Context, input usecase.ReserveInput) (*domain.Reservation, error)
}

func (m *mockInventoryUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return m.getProductFn(ctx, id)
}

func (m *mockInventoryUseCase) UpdateStock(ctx context.Context, input usecase.UpdateStockInput) (*usecase.StockChange, error) {
	return m.updateStockFn(ctx, input)
}

func (m *mockInventoryUseCase) ReserveStock(ctx context.Context, input usecase.ReserveInput) (*domain.Reservation, error) {
	return m.reserveFn(ctx, input)
}

func newTestServer(t *testing.T, uc usecase.InventoryUseCase) *InventoryServiceClient {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	mux := http.NewServeMux()
	path, h := NewInventoryServiceHandler(NewInventoryHandler(uc), connect.WithInterceptors(
		ServerRequestIDInterceptor(),
		LoggingInterceptor(logger),
	))
	mux.Handle(path, h)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewInventoryServiceClient(http.DefaultClient, server.URL,
		connect.WithInterceptors(ClientRequestIDInterceptor()))
}

func newLedgerServer(t *testing.T) *InventoryServiceClient {
	t.Helper()
	store := memory.NewStore()
	uc := usecase.NewInventoryUseCase(
		memory.NewProductRepository(store),
		memory.NewReservationRepository(store),
		memory.NewMovementLog(store),
		redis.NewNoopIdempotencyStore(),
		memory.NewTxManager(store),
		usecase.InventoryOptions{},
	)
	return newTestServer(t, uc)
}

func TestGetProduct(t *testing.T) {
	product := &domain.Product{
		ID:                "PROD001",
		Name:              "MacBook Pro",
		Price:             decimal.RequireFromString("1999.99"),
		StockQuantity:     25,
		ReservedQuantity:  20,
		LowStockThreshold: 5,
		IsActive:          true,
	}

	tests := []struct {
		name     string
		mockFn   func(ctx context.Context, id string) (*domain.Product, error)
		wantCode connect.Code
	}{
		{
			name: "returns product with derived fields",
			mockFn: func(ctx context.Context, id string) (*domain.Product, error) {
				return product, nil
			},
		},
		{
			name: "returns not found",
			mockFn: func(ctx context.Context, id string) (*domain.Product, error) {
				return nil, domain.ErrProductNotFound
			},
			wantCode: connect.CodeNotFound,
		},
		{
			name: "returns unavailable when the store is down",
			mockFn: func(ctx context.Context, id string) (*domain.Product, error) {
				return nil, domain.ErrStoreUnavailable
			},
			wantCode: connect.CodeUnavailable,
		},
		{
			name: "hides unexpected errors",
			mockFn: func(ctx context.Context, id string) (*domain.Product, error) {
				return nil, errors.New("pq: relation does not exist")
			},
			wantCode: connect.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, &mockInventoryUseCase{getProductFn: tt.mockFn})

			resp, err := client.GetProduct(context.Background(), connect.NewRequest(&GetProductRequest{ProductID: "PROD001"}))
			if tt.wantCode != 0 {
				if got := connect.CodeOf(err); got != tt.wantCode {
					t.Fatalf("GetProduct() code = %v, want %v (err %v)", got, tt.wantCode, err)
				}
				if tt.wantCode == connect.CodeInternal && strings.Contains(err.Error(), "relation") {
					t.Errorf("internal error leaked: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetProduct() error = %v", err)
			}
			got := resp.Msg.Product
			if got.Price != "1999.99" {
				t.Errorf("Price = %q, want 1999.99", got.Price)
			}
			if got.AvailableQuantity != 5 || !got.IsInStock || !got.IsLowStock {
				t.Errorf("derived fields = available %d in_stock %v low %v", got.AvailableQuantity, got.IsInStock, got.IsLowStock)
			}
		})
	}
}

func TestUpdateStock_AuditWarning(t *testing.T) {
	client := newTestServer(t, &mockInventoryUseCase{
		updateStockFn: func(ctx context.Context, input usecase.UpdateStockInput) (*usecase.StockChange, error) {
			return &usecase.StockChange{
				ProductID:     input.ProductID,
				PreviousStock: 10,
				NewStock:      10 + input.Delta,
				Delta:         input.Delta,
				Reason:        input.Reason,
				AuditErr:      errors.New("stock movement not recorded: broker down"),
			}, nil
		},
	})

	resp, err := client.UpdateStock(context.Background(), connect.NewRequest(&UpdateStockRequest{ProductID: "PROD001", Delta: 5, Reason: "restock"}))
	if err != nil {
		t.Fatalf("UpdateStock() error = %v", err)
	}
	if resp.Msg.NewStock != 15 {
		t.Errorf("NewStock = %d, want 15", resp.Msg.NewStock)
	}
	if !strings.Contains(resp.Msg.AuditWarning, "broker down") {
		t.Errorf("AuditWarning = %q, want audit failure", resp.Msg.AuditWarning)
	}
}

func TestReserveStock_InsufficientStockMetadata(t *testing.T) {
	client := newTestServer(t, &mockInventoryUseCase{
		reserveFn: func(ctx context.Context, input usecase.ReserveInput) (*domain.Reservation, error) {
			return nil, &domain.InsufficientStockError{Available: 3, Requested: input.Quantity}
		},
	})

	_, err := client.ReserveStock(context.Background(), connect.NewRequest(&ReserveStockRequest{ProductID: "P", Quantity: 5, CustomerID: "C"}))
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("ReserveStock() error is not a Connect error: %v", err)
	}
	if connectErr.Code() != connect.CodeResourceExhausted {
		t.Errorf("code = %v, want %v", connectErr.Code(), connect.CodeResourceExhausted)
	}
	if got := connectErr.Meta().Get(MetaAvailable); got != "3" {
		t.Errorf("%s = %q, want 3", MetaAvailable, got)
	}
	if got := connectErr.Meta().Get(MetaRequested); got != "5" {
		t.Errorf("%s = %q, want 5", MetaRequested, got)
	}
}

func TestInventoryService_EndToEnd(t *testing.T) {
	client := newLedgerServer(t)
	ctx := context.Background()

	threshold := int64(10)
	_, err := client.AddProduct(ctx, connect.NewRequest(&AddProductRequest{
		ProductID: "Q", Name: "Sony Headphones", Price: "349.99", Category: "Electronics",
		StockQuantity: 50, LowStockThreshold: &threshold,
	}))
	if err != nil {
		t.Fatalf("AddProduct() error = %v", err)
	}

	_, err = client.AddProduct(ctx, connect.NewRequest(&AddProductRequest{ProductID: "Q", Name: "dup", Price: "1"}))
	if got := connect.CodeOf(err); got != connect.CodeAlreadyExists {
		t.Errorf("duplicate AddProduct() code = %v, want %v", got, connect.CodeAlreadyExists)
	}

	_, err = client.AddProduct(ctx, connect.NewRequest(&AddProductRequest{ProductID: "R", Name: "bad", Price: "-5"}))
	if got := connect.CodeOf(err); got != connect.CodeInvalidArgument {
		t.Errorf("negative price AddProduct() code = %v, want %v", got, connect.CodeInvalidArgument)
	}

	_, err = client.AddProduct(ctx, connect.NewRequest(&AddProductRequest{ProductID: "R", Name: "bad", Price: "ten"}))
	if got := connect.CodeOf(err); got != connect.CodeInvalidArgument {
		t.Errorf("unparsable price AddProduct() code = %v, want %v", got, connect.CodeInvalidArgument)
	}

	reserved, err := client.ReserveStock(ctx, connect.NewRequest(&ReserveStockRequest{ProductID: "Q", Quantity: 10, CustomerID: "A"}))
	if err != nil {
		t.Fatalf("ReserveStock() error = %v", err)
	}
	res := reserved.Msg.Reservation
	if res.Status != "active" || res.ExpiresAt.Sub(res.CreatedAt) != 15*time.Minute {
		t.Errorf("reservation = %+v", res)
	}

	search, err := client.SearchProducts(ctx, connect.NewRequest(&SearchProductsRequest{Term: "sony"}))
	if err != nil {
		t.Fatalf("SearchProducts() error = %v", err)
	}
	if len(search.Msg.Products) != 1 || search.Msg.Products[0].AvailableQuantity != 40 {
		t.Errorf("SearchProducts() = %+v", search.Msg.Products)
	}

	released, err := client.ReleaseReservation(ctx, connect.NewRequest(&ReleaseReservationRequest{ReservationID: res.ReservationID}))
	if err != nil {
		t.Fatalf("ReleaseReservation() error = %v", err)
	}
	if released.Msg.Reservation.Status != "released" || released.Msg.Reservation.ReleasedAt == nil {
		t.Errorf("released reservation = %+v", released.Msg.Reservation)
	}

	_, err = client.ReleaseReservation(ctx, connect.NewRequest(&ReleaseReservationRequest{ReservationID: res.ReservationID}))
	if got := connect.CodeOf(err); got != connect.CodeFailedPrecondition {
		t.Errorf("second release code = %v, want %v", got, connect.CodeFailedPrecondition)
	}

	got, err := client.GetReservation(ctx, connect.NewRequest(&GetReservationRequest{ReservationID: res.ReservationID}))
	if err != nil {
		t.Fatalf("GetReservation() error = %v", err)
	}
	if got.Msg.Reservation.ReleaseReason != "manual" {
		t.Errorf("ReleaseReason = %q, want manual", got.Msg.Reservation.ReleaseReason)
	}

	_, err = client.UpdateStock(ctx, connect.NewRequest(&UpdateStockRequest{ProductID: "Q", Delta: -60}))
	if got := connect.CodeOf(err); got != connect.CodeResourceExhausted {
		t.Errorf("UpdateStock(-60) code = %v, want %v", got, connect.CodeResourceExhausted)
	}

	change, err := client.UpdateStock(ctx, connect.NewRequest(&UpdateStockRequest{ProductID: "Q", Delta: -45, Reason: "sale"}))
	if err != nil {
		t.Fatalf("UpdateStock() error = %v", err)
	}
	if change.Msg.PreviousStock != 50 || change.Msg.NewStock != 5 || change.Msg.AuditWarning != "" {
		t.Errorf("UpdateStock() = %+v", change.Msg)
	}

	low, err := client.GetLowStockProducts(ctx, connect.NewRequest(&GetLowStockProductsRequest{}))
	if err != nil {
		t.Fatalf("GetLowStockProducts() error = %v", err)
	}
	if len(low.Msg.Items) != 1 || low.Msg.Items[0].ProductID != "Q" {
		t.Errorf("GetLowStockProducts() = %+v", low.Msg.Items)
	}
}

func TestLoggingInterceptor_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	mux := http.NewServeMux()
	path, h := NewInventoryServiceHandler(
		NewInventoryHandler(&mockInventoryUseCase{
			getProductFn: func(ctx context.Context, id string) (*domain.Product, error) {
				return nil, domain.ErrProductNotFound
			},
		}),
		connect.WithInterceptors(ServerRequestIDInterceptor(), LoggingInterceptor(logger)),
	)
	mux.Handle(path, h)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewInventoryServiceClient(http.DefaultClient, server.URL, connect.WithInterceptors(ClientRequestIDInterceptor()))
	ctx := WithRequestID(context.Background(), "req-123")
	_, _ = client.GetProduct(ctx, connect.NewRequest(&GetProductRequest{ProductID: "missing"}))

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-123"`) {
		t.Errorf("log missing request id: %s", out)
	}
	if !strings.Contains(out, GetProductProcedure) || !strings.Contains(out, `"code":"not_found"`) {
		t.Errorf("log missing procedure or code: %s", out)
	}
}
