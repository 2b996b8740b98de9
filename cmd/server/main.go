package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/renzotjpro/ecommerce-support/internal/adapter/audit"
	connectHandler "github.com/renzotjpro/ecommerce-support/internal/adapter/connect"
	kafkaAdapter "github.com/renzotjpro/ecommerce-support/internal/adapter/kafka"
	"github.com/renzotjpro/ecommerce-support/internal/adapter/memory"
	redisAdapter "github.com/renzotjpro/ecommerce-support/internal/adapter/redis"
	"github.com/renzotjpro/ecommerce-support/internal/adapter/repository"
	"github.com/renzotjpro/ecommerce-support/internal/config"
	"github.com/renzotjpro/ecommerce-support/internal/domain"
	"github.com/renzotjpro/ecommerce-support/internal/observability"
	"github.com/renzotjpro/ecommerce-support/internal/usecase"
	"github.com/renzotjpro/ecommerce-support/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// stores bundles the ledger's persistence for whichever driver is configured.
type stores struct {
	products     domain.ProductRepository
	reservations domain.ReservationRepository
	movements    domain.MovementRecorder
	txManager    usecase.TxManager
	ping         func(ctx context.Context) error
	close        func()
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("service", cfg.ServiceName))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.Int("port", cfg.Port),
		slog.String("store_driver", cfg.StoreDriver),
		slog.Duration("reservation_hold", cfg.ReservationHold),
		slog.Bool("expiry_sweep_enabled", cfg.ExpirySweepEnabled),
	)

	meterProvider := sdkmetric.NewMeterProvider()
	defer meterProvider.Shutdown(context.Background())
	otel.SetMeterProvider(meterProvider)

	metrics, err := observability.NewLedgerMetrics(meterProvider.Meter("github.com/renzotjpro/ecommerce-support"))
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()
	metrics.SetDependencyStatus("store", true)

	var idempotencyStore idempotencyBackend
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("failed to parse Redis URL, idempotency disabled", slog.String("error", err.Error()))
		} else {
			redisClient = redis.NewClient(redisOpts)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				logger.Warn("failed to connect to Redis, idempotency disabled", slog.String("error", err.Error()))
				redisClient.Close()
				redisClient = nil
			} else {
				logger.Info("Redis connection established")
				idempotencyStore = redisAdapter.NewIdempotencyStore(redisClient, redisAdapter.DefaultKeyPrefix)
			}
		}
	} else {
		logger.Warn("Redis URL not configured, idempotency disabled")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	metrics.SetDependencyStatus("redis", redisClient != nil)

	if idempotencyStore == nil {
		idempotencyStore = redisAdapter.NewNoopIdempotencyStore()
		logger.Warn("using no-op idempotency store")
	}

	movements := st.movements
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafkaAdapter.NewMovementPublisher(cfg.KafkaMovementTopic, cfg.KafkaBrokers...)
		defer publisher.Close()
		movements = audit.NewFanout(st.movements, publisher)
		logger.Info("publishing stock movements to Kafka",
			slog.String("topic", cfg.KafkaMovementTopic),
			slog.Any("brokers", cfg.KafkaBrokers),
		)
	}

	inventoryUC := usecase.NewInventoryUseCase(
		st.products,
		st.reservations,
		movements,
		idempotencyStore,
		st.txManager,
		usecase.InventoryOptions{
			ReservationHold:          cfg.ReservationHold,
			DefaultLowStockThreshold: cfg.DefaultLowStockThreshold,
			IdempotencyTTL:           cfg.IdempotencyKeyTTL,
			Logger:                   logger.With("component", "inventory-ledger"),
			Metrics:                  metrics,
		},
	)

	inventoryHandler := connectHandler.NewInventoryHandler(inventoryUC)
	interceptors := connect.WithInterceptors(
		connectHandler.ServerRequestIDInterceptor(),
		connectHandler.LoggingInterceptor(logger),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	inventoryPath, inventorySvcHandler := connectHandler.NewInventoryServiceHandler(inventoryHandler, interceptors)
	router.Mount(inventoryPath, inventorySvcHandler)
	router.Get("/healthz", handleHealthz)
	router.Get("/readyz", handleReadyz(st.ping, idempotencyStore, redisClient != nil, metrics, logger))

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h2c.NewHandler(otelhttp.NewHandler(router, cfg.ServiceName), &http2.Server{}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.ExpirySweepEnabled {
		expirer := worker.NewReservationExpirer(
			inventoryUC,
			metrics,
			logger.With("component", "reservation-expirer"),
			cfg.ExpirySweepInterval,
			cfg.ExpirySweepBatchSize,
		)
		g.Go(func() error {
			expirer.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("address", addr),
			slog.String("protocols", "Connect, gRPC, gRPC-Web"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &stores{
			products:     memory.NewProductRepository(store),
			reservations: memory.NewReservationRepository(store),
			movements:    memory.NewMovementLog(store),
			txManager:    memory.NewTxManager(store),
			ping:         func(context.Context) error { return nil },
			close:        func() {},
		}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("database connection established")

	if cfg.RunMigrations {
		if err := repository.RunMigrations(pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	return &stores{
		products:     repository.NewPostgresProductRepository(pool),
		reservations: repository.NewPostgresReservationRepository(pool),
		movements:    repository.NewPostgresMovementRecorder(pool),
		txManager:    repository.NewTxManager(pool),
		ping:         pool.Ping,
		close:        pool.Close,
	}, nil
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "serving"})
}

type idempotencyBackend interface {
	usecase.IdempotencyStore
	Ping(ctx context.Context) error
}

// handleReadyz requires the stock store; Redis is optional and only reported.
func handleReadyz(
	ping func(ctx context.Context) error,
	idempotency idempotencyBackend,
	redisConfigured bool,
	metrics *observability.LedgerMetrics,
	logger *slog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := ping(r.Context()); err != nil {
			metrics.SetDependencyStatus("store", false)
			logger.Warn("store health check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "not_ready",
				"reason": "stock store unavailable",
			})
			return
		}
		metrics.SetDependencyStatus("store", true)

		redisStatus := "not_configured"
		if redisConfigured {
			if err := idempotency.Ping(r.Context()); err != nil {
				redisStatus = "degraded"
				metrics.SetDependencyStatus("redis", false)
				logger.Warn("Redis health check failed", slog.String("error", err.Error()))
			} else {
				redisStatus = "healthy"
				metrics.SetDependencyStatus("redis", true)
			}
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ready",
			"redis":  redisStatus,
		})
	}
}
