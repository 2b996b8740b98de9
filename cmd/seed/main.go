// Command seed loads the sample catalog into a running inventory service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	connectHandler "github.com/renzotjpro/ecommerce-support/internal/adapter/connect"
)

func main() {
	addr := flag.String("addr", "http://localhost:50053", "inventory service base URL")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := connectHandler.NewInventoryServiceClient(
		http.DefaultClient,
		*addr,
		connect.WithInterceptors(connectHandler.ClientRequestIDInterceptor()),
	)

	if err := seed(ctx, client, sampleCatalog, os.Stdout); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type seedClient interface {
	AddProduct(context.Context, *connect.Request[connectHandler.AddProductRequest]) (*connect.Response[connectHandler.AddProductResponse], error)
	GetLowStockProducts(context.Context, *connect.Request[connectHandler.GetLowStockProductsRequest]) (*connect.Response[connectHandler.GetLowStockProductsResponse], error)
}

type categoryStats struct {
	count int
	value decimal.Decimal
}

// seed adds every catalog entry, skipping ids that already exist, then
// prints per-category totals and the current low-stock list.
func seed(ctx context.Context, client seedClient, catalog []connectHandler.AddProductRequest, out io.Writer) error {
	var added, skipped, failed int
	var order []string
	stats := make(map[string]*categoryStats)

	for i := range catalog {
		p := catalog[i]
		_, err := client.AddProduct(ctx, connect.NewRequest(&p))
		switch {
		case err == nil:
			added++
			fmt.Fprintf(out, "added   %-8s %s (%d units, $%s)\n", p.ProductID, p.Name, p.StockQuantity, p.Price)
		case connect.CodeOf(err) == connect.CodeAlreadyExists:
			skipped++
			fmt.Fprintf(out, "skipped %-8s %s (already exists)\n", p.ProductID, p.Name)
		default:
			failed++
			fmt.Fprintf(out, "failed  %-8s %s: %v\n", p.ProductID, p.Name, err)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("failed to seed catalog: %w", ctx.Err())
			}
			continue
		}

		s, ok := stats[p.Category]
		if !ok {
			s = &categoryStats{}
			stats[p.Category] = s
			order = append(order, p.Category)
		}
		s.count++
		if price, err := decimal.NewFromString(p.Price); err == nil {
			s.value = s.value.Add(price.Mul(decimal.NewFromInt(p.StockQuantity)))
		}
	}

	fmt.Fprintf(out, "\nadded %d, skipped %d, failed %d\n\n", added, skipped, failed)
	for _, category := range order {
		s := stats[category]
		fmt.Fprintf(out, "%s: %d products | inventory value: $%s\n", category, s.count, s.value.StringFixed(2))
	}

	low, err := client.GetLowStockProducts(ctx, connect.NewRequest(&connectHandler.GetLowStockProductsRequest{}))
	if err != nil {
		return fmt.Errorf("failed to list low stock products: %w", err)
	}
	if len(low.Msg.Items) == 0 {
		fmt.Fprintln(out, "\nall products are adequately stocked")
	} else {
		fmt.Fprintf(out, "\n%d product(s) need restocking:\n", len(low.Msg.Items))
		for _, item := range low.Msg.Items {
			fmt.Fprintf(out, "  - %s: %d units (threshold: %d)\n", item.Name, item.AvailableQuantity, item.Threshold)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d product(s) could not be added", failed)
	}
	return nil
}
