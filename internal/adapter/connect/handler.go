package connect

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
	"github.com/renzotjpro/ecommerce-support/internal/usecase"
)

type InventoryHandler struct {
	inventoryUC usecase.InventoryUseCase
}

func NewInventoryHandler(inventoryUC usecase.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{inventoryUC: inventoryUC}
}

func (h *InventoryHandler) GetProduct(
	ctx context.Context,
	req *connect.Request[GetProductRequest],
) (*connect.Response[GetProductResponse], error) {
	product, err := h.inventoryUC.GetProduct(ctx, req.Msg.ProductID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetProductResponse{Product: toProductMessage(product)}), nil
}

func (h *InventoryHandler) SearchProducts(
	ctx context.Context,
	req *connect.Request[SearchProductsRequest],
) (*connect.Response[SearchProductsResponse], error) {
	summaries, err := h.inventoryUC.SearchProducts(ctx, domain.ProductFilter{
		Term:        req.Msg.Term,
		Category:    req.Msg.Category,
		InStockOnly: req.Msg.InStockOnly,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SearchProductsResponse{Products: toSummaryMessages(summaries)}), nil
}

func (h *InventoryHandler) GetLowStockProducts(
	ctx context.Context,
	req *connect.Request[GetLowStockProductsRequest],
) (*connect.Response[GetLowStockProductsResponse], error) {
	items, err := h.inventoryUC.GetLowStockProducts(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetLowStockProductsResponse{Items: toLowStockMessages(items)}), nil
}

func (h *InventoryHandler) AddProduct(
	ctx context.Context,
	req *connect.Request[AddProductRequest],
) (*connect.Response[AddProductResponse], error) {
	price, err := decimal.NewFromString(req.Msg.Price)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, req.Msg.Price))
	}

	product, err := h.inventoryUC.AddProduct(ctx, usecase.AddProductInput{
		ID:                req.Msg.ProductID,
		Name:              req.Msg.Name,
		Description:       req.Msg.Description,
		Price:             price,
		Category:          req.Msg.Category,
		StockQuantity:     req.Msg.StockQuantity,
		LowStockThreshold: req.Msg.LowStockThreshold,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&AddProductResponse{Product: toProductMessage(product)}), nil
}

func (h *InventoryHandler) UpdateStock(
	ctx context.Context,
	req *connect.Request[UpdateStockRequest],
) (*connect.Response[UpdateStockResponse], error) {
	change, err := h.inventoryUC.UpdateStock(ctx, usecase.UpdateStockInput{
		ProductID: req.Msg.ProductID,
		Delta:     req.Msg.Delta,
		Reason:    req.Msg.Reason,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &UpdateStockResponse{
		ProductID:     change.ProductID,
		PreviousStock: change.PreviousStock,
		NewStock:      change.NewStock,
		Delta:         change.Delta,
		Reason:        change.Reason,
	}
	if change.AuditErr != nil {
		resp.AuditWarning = change.AuditErr.Error()
	}
	return connect.NewResponse(resp), nil
}

func (h *InventoryHandler) ReserveStock(
	ctx context.Context,
	req *connect.Request[ReserveStockRequest],
) (*connect.Response[ReserveStockResponse], error) {
	reservation, err := h.inventoryUC.ReserveStock(ctx, usecase.ReserveInput{
		ProductID:      req.Msg.ProductID,
		Quantity:       req.Msg.Quantity,
		CustomerID:     req.Msg.CustomerID,
		IdempotencyKey: req.Msg.IdempotencyKey,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ReserveStockResponse{Reservation: toReservationMessage(reservation)}), nil
}

func (h *InventoryHandler) ReleaseReservation(
	ctx context.Context,
	req *connect.Request[ReleaseReservationRequest],
) (*connect.Response[ReleaseReservationResponse], error) {
	reservation, err := h.inventoryUC.ReleaseReservation(ctx, req.Msg.ReservationID, req.Msg.IdempotencyKey)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ReleaseReservationResponse{Reservation: toReservationMessage(reservation)}), nil
}

func (h *InventoryHandler) GetReservation(
	ctx context.Context,
	req *connect.Request[GetReservationRequest],
) (*connect.Response[GetReservationResponse], error) {
	reservation, err := h.inventoryUC.GetReservation(ctx, req.Msg.ReservationID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetReservationResponse{Reservation: toReservationMessage(reservation)}), nil
}
