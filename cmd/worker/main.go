package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	allocmemory "github.com/fulfilld/allocation/internal/domains/allocation/adapters/memory"
	allocobs "github.com/fulfilld/allocation/internal/domains/allocation/adapters/observability"
	allocpostgres "github.com/fulfilld/allocation/internal/domains/allocation/adapters/persistence/postgres"
	allocapp "github.com/fulfilld/allocation/internal/domains/allocation/application"
	allocports "github.com/fulfilld/allocation/internal/domains/allocation/ports"
	catalogworkflows "github.com/fulfilld/allocation/internal/durable/temporal/workflows/catalog"
	"github.com/fulfilld/allocation/internal/platform/migrations"
	platformobservability "github.com/fulfilld/allocation/internal/platform/observability"
	platformpostgres "github.com/fulfilld/allocation/internal/platform/postgres"
	catalogactivities "github.com/fulfilld/allocation/internal/platform/temporal/activities/catalog"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	const serviceName = "allocation-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	discontinued := allocmemory.NewDiscontinuationLedger()
	stock := allocmemory.NewStockLedger(discontinued)
	providers := allocmemory.NewProviderRegistry(discontinued)
	coreService := allocapp.NewService(stock, providers, discontinued, defaultStockLevel())
	allocService := allocobs.New(
		coreService,
		allocobs.WithLogger(logger),
		allocobs.WithTracer(instruments.Tracer("internal.allocation.application")),
		allocobs.WithMeter(instruments.Meter("internal.allocation.application")),
	)

	source, cleanupSource := buildCatalogSource(ctx, logger)
	defer cleanupSource()
	importer := allocapp.NewCatalogImporter(source, allocService)
	activities := catalogactivities.NewActivities(importer)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, catalogworkflows.CatalogImportTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(catalogworkflows.CatalogImportWorkflow, workflow.RegisterOptions{Name: catalogworkflows.CatalogImportWorkflowName})
	w.RegisterActivityWithOptions(activities.ImportCatalog, activity.RegisterOptions{Name: catalogactivities.ImportCatalogActivityName})

	logger.Info("worker listening", slog.String("taskQueue", catalogworkflows.CatalogImportTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

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
	logger.Info("worker catalog source configured with postgres")
	return allocpostgres.NewCatalogSource(db), cleanup
}

func defaultStockLevel() int {
	if raw := os.Getenv("DEFAULT_STOCK_LEVEL"); raw != "" {
		if level, err := strconv.Atoi(raw); err == nil && level >= 0 {
			return level
		}
	}
	return 5
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
