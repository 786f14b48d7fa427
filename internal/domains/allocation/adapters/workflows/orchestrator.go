package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/fulfilld/allocation/internal/domains/allocation/application"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
	catalogworkflows "github.com/fulfilld/allocation/internal/durable/temporal/workflows/catalog"
)

var (
	_ ports.CatalogOrchestrator = (*TemporalCatalogWorkflows)(nil)
	_ ports.CatalogOrchestrator = (*InlineCatalogWorkflows)(nil)
)

// TemporalCatalogWorkflows starts catalog workflows on a Temporal cluster.
type TemporalCatalogWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalCatalogWorkflows wires a Temporal client into the orchestrator.
func NewTemporalCatalogWorkflows(c client.Client) *TemporalCatalogWorkflows {
	return &TemporalCatalogWorkflows{client: c, taskQueue: catalogworkflows.CatalogImportTaskQueue}
}

// ImportCatalog starts the Temporal workflow that seeds the catalog. A
// concurrently started run with the same id is joined rather than failed.
func (o *TemporalCatalogWorkflows) ImportCatalog(ctx context.Context) (*ports.CatalogImportResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal catalog workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("catalog-import-%s", traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		catalogworkflows.CatalogImportWorkflow,
		catalogworkflows.CatalogImportWorkflowInput{TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
			var result ports.CatalogImportResult
			if err := existingRun.Get(ctx, &result); err != nil {
				return nil, err
			}
			return &result, nil
		}
		return nil, err
	}
	var result ports.CatalogImportResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InlineCatalogWorkflows runs the import directly without Temporal, useful
// for tests or dev fallbacks.
type InlineCatalogWorkflows struct {
	importer *application.CatalogImporter
}

// NewInlineCatalogWorkflows wraps the catalog importer for synchronous
// execution.
func NewInlineCatalogWorkflows(importer *application.CatalogImporter) *InlineCatalogWorkflows {
	return &InlineCatalogWorkflows{importer: importer}
}

// ImportCatalog delegates to the importer without durable orchestration.
func (o *InlineCatalogWorkflows) ImportCatalog(ctx context.Context) (*ports.CatalogImportResult, error) {
	if o == nil || o.importer == nil {
		return nil, errors.New("inline catalog workflows not configured")
	}
	return o.importer.Run(ctx)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
