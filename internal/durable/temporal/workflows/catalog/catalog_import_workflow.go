package catalog

import (
	"go.temporal.io/sdk/workflow"

	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
	"github.com/fulfilld/allocation/internal/durable/temporal/sequences"
)

const (
	// CatalogImportWorkflowName is the public identifier for registering
	// the workflow.
	CatalogImportWorkflowName = "catalog.workflows.Import"
	// CatalogImportTaskQueue is the queue consumed by the worker
	// processing catalog workflows.
	CatalogImportTaskQueue = "CATALOG_IMPORT"
)

// CatalogImportWorkflowInput captures the payload for a catalog import run.
type CatalogImportWorkflowInput struct {
	TraceID string
}

// CatalogImportWorkflow orchestrates the activities that seed the
// allocation catalog.
func CatalogImportWorkflow(ctx workflow.Context, input CatalogImportWorkflowInput) (*ports.CatalogImportResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("CatalogImportWorkflow started", withTraceID(input.TraceID)...)
	result, err := sequences.RunCatalogImportSequence(ctx)
	if err != nil {
		logger.Error("CatalogImportWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("CatalogImportWorkflow completed",
		withTraceID(input.TraceID, "productsAdded", result.ProductsAdded)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
