package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
	catalogactivities "github.com/fulfilld/allocation/internal/platform/temporal/activities/catalog"
)

// RunCatalogImportSequence executes the ordered set of activities needed to
// seed the allocation catalog.
func RunCatalogImportSequence(ctx workflow.Context) (*ports.CatalogImportResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("catalog import sequence started")
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var result ports.CatalogImportResult
	err := workflow.ExecuteActivity(ctx, catalogactivities.ImportCatalogActivityName).Get(ctx, &result)
	if err != nil {
		logger.Error("catalog import sequence failed", "error", err)
		return nil, err
	}
	logger.Info("catalog import sequence completed",
		"productsAdded", result.ProductsAdded,
		"providersRegistered", result.ProvidersRegistered)
	return &result, nil
}
