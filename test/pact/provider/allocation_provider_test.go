//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/fulfilld/allocation/test/pact"

	"github.com/fulfilld/allocation/internal/domains/allocation/adapters/memory"
	allocobs "github.com/fulfilld/allocation/internal/domains/allocation/adapters/observability"
	"github.com/fulfilld/allocation/internal/domains/allocation/application"
	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
	allocationserver "github.com/fulfilld/allocation/server"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestAllocationProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogSeeded: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCatalog(t)
			}
			return nil, nil
		},
		pacttest.StateProviderBusy: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCatalog(t)
				app.occupyProvider(t)
			}
			return nil, nil
		},
		pacttest.StateCatalogMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			app.seedCatalog(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves the allocation API behind a stable URL while the
// ledgers beneath it are rebuilt per provider state.
type contractProviderApp struct {
	mu      sync.RWMutex
	router  *gin.Engine
	service *application.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	app := &contractProviderApp{}
	app.rebuild()

	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)

	return app
}

func (a *contractProviderApp) rebuild() {
	discontinued := memory.NewDiscontinuationLedger()
	stock := memory.NewStockLedger(discontinued)
	providers := memory.NewProviderRegistry(discontinued)
	core := application.NewService(stock, providers, discontinued, 5)
	service := allocobs.New(core)

	handlers := allocationserver.ApiHandleFunctions{
		OrdersAPI:    allocationserver.NewOrdersAPI(service),
		CatalogAPI:   allocationserver.NewCatalogAPI(service),
		ProvidersAPI: allocationserver.NewProvidersAPI(service),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = allocationserver.NewRouterWithGinEngine(router, handlers)

	a.mu.Lock()
	a.router = router
	a.service = core
	a.mu.Unlock()
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	a.rebuild()
}

func (a *contractProviderApp) seedCatalog(t testing.TB) {
	t.Helper()
	ctx := context.Background()

	lamp, err := domain.NewProduct(pacttest.ExistingProductNumber, "desk lamp", 10)
	require.NoError(t, err)
	_, err = a.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)

	mounting, err := domain.NewService(pacttest.MountingServiceNumber, "mounting", 20, 2)
	require.NoError(t, err)
	provider, err := domain.NewProvider(pacttest.ExistingProviderID, "north crew", []domain.Service{mounting})
	require.NoError(t, err)
	require.NoError(t, a.service.RegisterProvider(ctx, provider))
}

func (a *contractProviderApp) occupyProvider(t testing.TB) {
	t.Helper()
	ctx := context.Background()

	mounting, err := domain.NewService(pacttest.MountingServiceNumber, "mounting", 20, 2)
	require.NoError(t, err)
	order := domain.NewOrder()
	require.NoError(t, order.AddItem(mounting, 1))
	require.NoError(t, a.service.PlaceOrder(ctx, order))
}
