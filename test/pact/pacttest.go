//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "allocation-api"
	ConsumerName = "storefront-portal"

	StateCatalogSeeded  = "catalog with products and providers seeded"
	StateProviderBusy   = "the only mounting provider is busy"
	StateCatalogMissing = "catalog is empty"
)

const (
	ExistingProductNumber = 1
	MissingProductNumber  = 404
	MountingServiceNumber = 21
	ExistingProviderID    = 9
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderPayload provides stable test data for order interactions.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"lines": []map[string]any{
			{"kind": "product", "itemNumber": ExistingProductNumber, "quantity": 3},
			{"kind": "service", "itemNumber": MountingServiceNumber, "quantity": 1},
		},
	}
}

// ExampleProductPayload provides stable test data for catalog interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"itemNumber": ExistingProductNumber,
		"name":       "desk lamp",
		"price":      10.0,
		"stock":      5,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
