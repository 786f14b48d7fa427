package allocationserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	allocmapper "github.com/fulfilld/allocation/internal/domains/allocation/adapters/http/mapper"
	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
	apierrors "github.com/fulfilld/allocation/internal/shared/errors"
)

// CatalogAPI wires HTTP transport with the catalog side of the allocation
// service.
type CatalogAPI struct {
	service ports.Service
}

// NewCatalogAPI creates a CatalogAPI backed by the provided service.
func NewCatalogAPI(service ports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// Get /v1/catalog/products
// List the product catalog with current stock levels.
func (api *CatalogAPI) GetProducts(c *gin.Context) {
	products, err := api.service.ProductCatalog(c.Request.Context())
	if err != nil {
		respondAllocationError(c, err)
		return
	}
	out := make([]allocmapper.Product, 0, len(products))
	for _, product := range products {
		stock, err := api.service.ProductStock(c.Request.Context(), product.ItemNumber())
		if err != nil {
			respondAllocationError(c, err)
			return
		}
		out = append(out, allocmapper.FromProduct(product, stock))
	}
	c.JSON(http.StatusOK, out)
}

// Post /v1/catalog/products
// Add products to the catalog; responds with the subset actually added.
func (api *CatalogAPI) AddProducts(c *gin.Context) {
	var payload []allocmapper.NewProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	products := make([]domain.Product, 0, len(payload))
	for _, entry := range payload {
		product, err := allocmapper.ToDomainProduct(entry)
		if err != nil {
			respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()).
				WithExtension("itemNumber", entry.ItemNumber))
			return
		}
		products = append(products, product)
	}
	added, err := api.service.AddNewProducts(c.Request.Context(), products)
	if err != nil {
		respondAllocationError(c, err)
		return
	}
	out := make([]allocmapper.Product, 0, len(added))
	for _, product := range added {
		stock, err := api.service.ProductStock(c.Request.Context(), product.ItemNumber())
		if err != nil {
			respondAllocationError(c, err)
			return
		}
		out = append(out, allocmapper.FromProduct(product, stock))
	}
	c.JSON(http.StatusOK, out)
}

// Put /v1/catalog/products/:itemNumber/restock-target
// Replace a product's restock target.
func (api *CatalogAPI) SetRestockTarget(c *gin.Context) {
	number, ok := parseItemNumber(c)
	if !ok {
		return
	}
	var payload allocmapper.RestockTargetUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if payload.Target < 0 {
		allocationResponder.ValidationFailed(c, map[string]string{"target": "must not be negative"})
		return
	}
	previous, err := api.service.SetRestockTarget(c.Request.Context(), number, payload.Target)
	if err != nil {
		respondAllocationError(c, err)
		return
	}
	c.JSON(http.StatusOK, allocmapper.RestockTargetResult{
		ItemNumber:     number,
		PreviousTarget: previous,
		Target:         payload.Target,
	})
}

// Get /v1/catalog/services
// List the services with at least one registered provider.
func (api *CatalogAPI) GetServices(c *gin.Context) {
	services, err := api.service.OfferedServices(c.Request.Context())
	if err != nil {
		respondAllocationError(c, err)
		return
	}
	c.JSON(http.StatusOK, allocmapper.FromServices(services))
}

// Post /v1/catalog/discontinuations
// Permanently stop selling an item.
func (api *CatalogAPI) DiscontinueItem(c *gin.Context) {
	var payload allocmapper.Discontinuation
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	item, problem := api.resolveItem(c, payload)
	if problem != nil {
		respondProblem(c, *problem)
		return
	}
	if err := api.service.DiscontinueItem(c.Request.Context(), item); err != nil {
		respondAllocationError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *CatalogAPI) resolveItem(c *gin.Context, payload allocmapper.Discontinuation) (domain.Item, *apierrors.ProblemDetail) {
	switch domain.ItemKind(payload.Kind) {
	case domain.KindProduct:
		products, err := api.service.ProductCatalog(c.Request.Context())
		if err != nil {
			problem := apierrors.ErrInternal.WithDetail(err.Error())
			return nil, &problem
		}
		for _, product := range products {
			if product.ItemNumber() == payload.ItemNumber {
				return product, nil
			}
		}
		problem := apierrors.NewNotFoundProblem("product", payload.ItemNumber)
		return nil, &problem
	case domain.KindService:
		services, err := api.service.OfferedServices(c.Request.Context())
		if err != nil {
			problem := apierrors.ErrInternal.WithDetail(err.Error())
			return nil, &problem
		}
		for _, service := range services {
			if service.ItemNumber() == payload.ItemNumber {
				return service, nil
			}
		}
		problem := apierrors.NewNotFoundProblem("service", payload.ItemNumber)
		return nil, &problem
	default:
		problem := apierrors.ErrBadRequest.WithDetail("unknown item kind: " + payload.Kind)
		return nil, &problem
	}
}

func parseItemNumber(c *gin.Context) (int, bool) {
	raw := c.Param("itemNumber")
	number, err := strconv.Atoi(raw)
	if err != nil || number <= 0 {
		allocationResponder.BadRequest(c, "itemNumber must be a positive integer")
		return 0, false
	}
	return number, true
}
