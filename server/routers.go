package allocationserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ApiHandleFunctions bundles the API handlers wired into the router.
type ApiHandleFunctions struct {
	OrdersAPI    OrdersAPI
	CatalogAPI   CatalogAPI
	ProvidersAPI ProvidersAPI
}

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router with default middleware.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the API routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

func defaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{http.MethodPost, "/v1/orders", h.OrdersAPI.PlaceOrder},
		{http.MethodGet, "/v1/catalog/products", h.CatalogAPI.GetProducts},
		{http.MethodPost, "/v1/catalog/products", h.CatalogAPI.AddProducts},
		{http.MethodPut, "/v1/catalog/products/:itemNumber/restock-target", h.CatalogAPI.SetRestockTarget},
		{http.MethodGet, "/v1/catalog/services", h.CatalogAPI.GetServices},
		{http.MethodPost, "/v1/catalog/discontinuations", h.CatalogAPI.DiscontinueItem},
		{http.MethodGet, "/v1/providers", h.ProvidersAPI.ListProviders},
		{http.MethodPost, "/v1/providers", h.ProvidersAPI.RegisterProvider},
	}
}
