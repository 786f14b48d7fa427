package allocationserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	allocmapper "github.com/fulfilld/allocation/internal/domains/allocation/adapters/http/mapper"
	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
	apierrors "github.com/fulfilld/allocation/internal/shared/errors"
)

// OrdersAPI wires HTTP transport with the allocation service.
type OrdersAPI struct {
	service ports.Service
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service ports.Service) OrdersAPI {
	return OrdersAPI{service: service}
}

// Post /v1/orders
// Submit an order; it is either fully allocated or rejected whole.
func (api *OrdersAPI) PlaceOrder(c *gin.Context) {
	var payload allocmapper.OrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if len(payload.Lines) == 0 {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("order has no lines"))
		return
	}
	order, err := api.buildOrder(c.Request.Context(), payload)
	if err != nil {
		respondError(c, http.StatusNotFound, err)
		return
	}
	if err := api.service.PlaceOrder(c.Request.Context(), order); err != nil {
		respondAllocationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, allocmapper.FromOrder(uuid.NewString(), order))
}

// buildOrder resolves the submitted item numbers against the current
// catalog and offered services.
func (api *OrdersAPI) buildOrder(ctx context.Context, payload allocmapper.OrderRequest) (*domain.Order, error) {
	products, err := api.service.ProductCatalog(ctx)
	if err != nil {
		return nil, err
	}
	productsByNumber := make(map[int]domain.Product, len(products))
	for _, product := range products {
		productsByNumber[product.ItemNumber()] = product
	}
	services, err := api.service.OfferedServices(ctx)
	if err != nil {
		return nil, err
	}
	servicesByNumber := make(map[int]domain.Service, len(services))
	for _, service := range services {
		servicesByNumber[service.ItemNumber()] = service
	}

	order := domain.NewOrder()
	for _, line := range payload.Lines {
		var item domain.Item
		switch domain.ItemKind(line.Kind) {
		case domain.KindProduct:
			product, ok := productsByNumber[line.ItemNumber]
			if !ok {
				return nil, apierrors.NewNotFoundProblem("product", line.ItemNumber)
			}
			item = product
		case domain.KindService:
			service, ok := servicesByNumber[line.ItemNumber]
			if !ok {
				return nil, apierrors.NewNotFoundProblem("service", line.ItemNumber)
			}
			item = service
		default:
			return nil, apierrors.ErrBadRequest.WithDetail("unknown item kind: " + line.Kind)
		}
		if err := order.AddItem(item, line.Quantity); err != nil {
			return nil, apierrors.ErrBadRequest.WithDetail(err.Error())
		}
	}
	return order, nil
}
