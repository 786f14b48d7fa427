package allocationserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	allocmapper "github.com/fulfilld/allocation/internal/domains/allocation/adapters/http/mapper"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
	apierrors "github.com/fulfilld/allocation/internal/shared/errors"
)

// ProvidersAPI wires HTTP transport with provider registration and listing.
type ProvidersAPI struct {
	service ports.Service
}

// NewProvidersAPI creates a ProvidersAPI backed by the provided service.
func NewProvidersAPI(service ports.Service) ProvidersAPI {
	return ProvidersAPI{service: service}
}

// Get /v1/providers
// List all registered providers with their current state.
func (api *ProvidersAPI) ListProviders(c *gin.Context) {
	providers, err := api.service.Providers(c.Request.Context())
	if err != nil {
		respondAllocationError(c, err)
		return
	}
	out := make([]allocmapper.Provider, 0, len(providers))
	for _, snapshot := range providers {
		out = append(out, allocmapper.FromProviderSnapshot(snapshot))
	}
	c.JSON(http.StatusOK, out)
}

// Post /v1/providers
// Register a provider and the services it performs.
func (api *ProvidersAPI) RegisterProvider(c *gin.Context) {
	var payload allocmapper.NewProvider
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	provider, err := allocmapper.ToDomainProvider(payload)
	if err != nil {
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()).
			WithExtension("id", payload.ID))
		return
	}
	if err := api.service.RegisterProvider(c.Request.Context(), provider); err != nil {
		respondAllocationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, allocmapper.FromProviderSnapshot(provider.Snapshot()))
}
