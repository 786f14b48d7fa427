package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	allocationserver "github.com/fulfilld/allocation/server"

	allocmemory "github.com/fulfilld/allocation/internal/domains/allocation/adapters/memory"
	allocobs "github.com/fulfilld/allocation/internal/domains/allocation/adapters/observability"
	allocpostgres "github.com/fulfilld/allocation/internal/domains/allocation/adapters/persistence/postgres"
	allocworkflows "github.com/fulfilld/allocation/internal/domains/allocation/adapters/workflows"
	allocapp "github.com/fulfilld/allocation/internal/domains/allocation/application"
	allocports "github.com/fulfilld/allocation/internal/domains/allocation/ports"
	"github.com/fulfilld/allocation/internal/platform/migrations"
	platformobservability "github.com/fulfilld/allocation/internal/platform/observability"
	platformpostgres "github.com/fulfilld/allocation/internal/platform/postgres"
)

// Run boots the allocation HTTP API with observability, ledgers, and catalog
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "allocation-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	discontinued := allocmemory.NewDiscontinuationLedger()
	stock := allocmemory.NewStockLedger(discontinued)
	providers := allocmemory.NewProviderRegistry(discontinued)
	coreService := allocapp.NewService(stock, providers, discontinued, cfg.DefaultStockLevel)
	allocService := allocobs.New(
		coreService,
		allocobs.WithLogger(logger),
		allocobs.WithTracer(instruments.Tracer("internal.allocation.application")),
		allocobs.WithMeter(instruments.Meter("internal.allocation.application")),
	)

	source, cleanupSource := buildCatalogSource(ctx, logger)
	defer cleanupSource()
	importer := allocapp.NewCatalogImporter(source, allocService)

	var orchestrator allocports.CatalogOrchestrator = allocworkflows.NewInlineCatalogWorkflows(importer)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running catalog import inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = allocworkflows.NewTemporalCatalogWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	if result, err := orchestrator.ImportCatalog(ctx); err != nil {
		logger.Warn("catalog import failed, starting with an empty catalog", slog.String("error", err.Error()))
	} else {
		logger.Info("catalog imported",
			slog.Int("productsAdded", result.ProductsAdded),
			slog.Int("providersRegistered", result.ProvidersRegistered),
			slog.Int("servicesOffered", result.ServicesOffered),
		)
	}

	handlers := allocationserver.ApiHandleFunctions{
		OrdersAPI:    allocationserver.NewOrdersAPI(allocService),
		CatalogAPI:   allocationserver.NewCatalogAPI(allocService),
		ProvidersAPI: allocationserver.NewProvidersAPI(allocService),
	}

	router := allocationserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("allocation API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("allocation API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildCatalogSource prefers the PostgreSQL catalog when POSTGRES_DSN is set
// and reachable, otherwise serves the built-in starter seed from memory.
func buildCatalogSource(ctx context.Context, logger *slog.Logger) (allocports.CatalogSource, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		return allocmemory.NewCatalogSource(allocmemory.StarterSeed()), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run catalog migrations, falling back to in-memory seed", slog.String("error", err.Error()))
		cleanup()
		return allocmemory.NewCatalogSource(allocmemory.StarterSeed()), func() {}
	}
	logger.Info("catalog source configured with postgres")
	return allocpostgres.NewCatalogSource(db), cleanup
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
