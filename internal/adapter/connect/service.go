package connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const InventoryServiceName = "inventory.v1.InventoryService"

const (
	GetProductProcedure          = "/" + InventoryServiceName + "/GetProduct"
	SearchProductsProcedure      = "/" + InventoryServiceName + "/SearchProducts"
	GetLowStockProductsProcedure = "/" + InventoryServiceName + "/GetLowStockProducts"
	AddProductProcedure          = "/" + InventoryServiceName + "/AddProduct"
	UpdateStockProcedure         = "/" + InventoryServiceName + "/UpdateStock"
	ReserveStockProcedure        = "/" + InventoryServiceName + "/ReserveStock"
	ReleaseReservationProcedure  = "/" + InventoryServiceName + "/ReleaseReservation"
	GetReservationProcedure      = "/" + InventoryServiceName + "/GetReservation"
)

type InventoryServiceHandler interface {
	GetProduct(context.Context, *connect.Request[GetProductRequest]) (*connect.Response[GetProductResponse], error)
	SearchProducts(context.Context, *connect.Request[SearchProductsRequest]) (*connect.Response[SearchProductsResponse], error)
	GetLowStockProducts(context.Context, *connect.Request[GetLowStockProductsRequest]) (*connect.Response[GetLowStockProductsResponse], error)
	AddProduct(context.Context, *connect.Request[AddProductRequest]) (*connect.Response[AddProductResponse], error)
	UpdateStock(context.Context, *connect.Request[UpdateStockRequest]) (*connect.Response[UpdateStockResponse], error)
	ReserveStock(context.Context, *connect.Request[ReserveStockRequest]) (*connect.Response[ReserveStockResponse], error)
	ReleaseReservation(context.Context, *connect.Request[ReleaseReservationRequest]) (*connect.Response[ReleaseReservationResponse], error)
	GetReservation(context.Context, *connect.Request[GetReservationRequest]) (*connect.Response[GetReservationResponse], error)
}

// NewInventoryServiceHandler mounts every inventory procedure and returns the
// path prefix to register on a router.
func NewInventoryServiceHandler(svc InventoryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetProductProcedure, connect.NewUnaryHandler(GetProductProcedure, svc.GetProduct, opts...))
	mux.Handle(SearchProductsProcedure, connect.NewUnaryHandler(SearchProductsProcedure, svc.SearchProducts, opts...))
	mux.Handle(GetLowStockProductsProcedure, connect.NewUnaryHandler(GetLowStockProductsProcedure, svc.GetLowStockProducts, opts...))
	mux.Handle(AddProductProcedure, connect.NewUnaryHandler(AddProductProcedure, svc.AddProduct, opts...))
	mux.Handle(UpdateStockProcedure, connect.NewUnaryHandler(UpdateStockProcedure, svc.UpdateStock, opts...))
	mux.Handle(ReserveStockProcedure, connect.NewUnaryHandler(ReserveStockProcedure, svc.ReserveStock, opts...))
	mux.Handle(ReleaseReservationProcedure, connect.NewUnaryHandler(ReleaseReservationProcedure, svc.ReleaseReservation, opts...))
	mux.Handle(GetReservationProcedure, connect.NewUnaryHandler(GetReservationProcedure, svc.GetReservation, opts...))

	return "/" + InventoryServiceName + "/", mux
}

// InventoryServiceClient calls the inventory service over the Connect protocol.
type InventoryServiceClient struct {
	getProduct          *connect.Client[GetProductRequest, GetProductResponse]
	searchProducts      *connect.Client[SearchProductsRequest, SearchProductsResponse]
	getLowStockProducts *connect.Client[GetLowStockProductsRequest, GetLowStockProductsResponse]
	addProduct          *connect.Client[AddProductRequest, AddProductResponse]
	updateStock         *connect.Client[UpdateStockRequest, UpdateStockResponse]
	reserveStock        *connect.Client[ReserveStockRequest, ReserveStockResponse]
	releaseReservation  *connect.Client[ReleaseReservationRequest, ReleaseReservationResponse]
	getReservation      *connect.Client[GetReservationRequest, GetReservationResponse]
}

func NewInventoryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *InventoryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &InventoryServiceClient{
		getProduct:          connect.NewClient[GetProductRequest, GetProductResponse](httpClient, baseURL+GetProductProcedure, opts...),
		searchProducts:      connect.NewClient[SearchProductsRequest, SearchProductsResponse](httpClient, baseURL+SearchProductsProcedure, opts...),
		getLowStockProducts: connect.NewClient[GetLowStockProductsRequest, GetLowStockProductsResponse](httpClient, baseURL+GetLowStockProductsProcedure, opts...),
		addProduct:          connect.NewClient[AddProductRequest, AddProductResponse](httpClient, baseURL+AddProductProcedure, opts...),
		updateStock:         connect.NewClient[UpdateStockRequest, UpdateStockResponse](httpClient, baseURL+UpdateStockProcedure, opts...),
		reserveStock:        connect.NewClient[ReserveStockRequest, ReserveStockResponse](httpClient, baseURL+ReserveStockProcedure, opts...),
		releaseReservation:  connect.NewClient[ReleaseReservationRequest, ReleaseReservationResponse](httpClient, baseURL+ReleaseReservationProcedure, opts...),
		getReservation:      connect.NewClient[GetReservationRequest, GetReservationResponse](httpClient, baseURL+GetReservationProcedure, opts...),
	}
}

func (c *InventoryServiceClient) GetProduct(ctx context.Context, req *connect.Request[GetProductRequest]) (*connect.Response[GetProductResponse], error) {
	return c.getProduct.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) SearchProducts(ctx context.Context, req *connect.Request[SearchProductsRequest]) (*connect.Response[SearchProductsResponse], error) {
	return c.searchProducts.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) GetLowStockProducts(ctx context.Context, req *connect.Request[GetLowStockProductsRequest]) (*connect.Response[GetLowStockProductsResponse], error) {
	return c.getLowStockProducts.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) AddProduct(ctx context.Context, req *connect.Request[AddProductRequest]) (*connect.Response[AddProductResponse], error) {
	return c.addProduct.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) UpdateStock(ctx context.Context, req *connect.Request[UpdateStockRequest]) (*connect.Response[UpdateStockResponse], error) {
	return c.updateStock.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) ReserveStock(ctx context.Context, req *connect.Request[ReserveStockRequest]) (*connect.Response[ReserveStockResponse], error) {
	return c.reserveStock.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) ReleaseReservation(ctx context.Context, req *connect.Request[ReleaseReservationRequest]) (*connect.Response[ReleaseReservationResponse], error) {
	return c.releaseReservation.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) GetReservation(ctx context.Context, req *connect.Request[GetReservationRequest]) (*connect.Response[GetReservationResponse], error) {
	return c.getReservation.CallUnary(ctx, req)
}
