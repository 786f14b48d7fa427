package allocationserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fulfilld/allocation/internal/domains/allocation/application"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
	apierrors "github.com/fulfilld/allocation/internal/shared/errors"
)

// allocationResponder maps allocation failures to RFC 7807 problems before
// falling back to the shared default handling.
var allocationResponder = apierrors.NewChainedResponder("", mapOrderRejection, mapLedgerError)

// respondProblem sends a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	allocationResponder.Respond(c, problem)
}

// respondError preserves the existing call sites while returning RFC 7807
// responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	if errors.As(err, &problem) {
		respondProblem(c, problem)
		return
	}
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusConflict:
		problem = apierrors.ErrConflict.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

// respondAllocationError translates allocation service failures through the
// chained responder; unmapped errors fall back to a 500 problem.
func respondAllocationError(c *gin.Context, err error) {
	allocationResponder.RespondError(c, err)
}

// mapOrderRejection turns order rejections into 409 conflicts carrying the
// blocking item number and resource class, so callers can tell which side
// blocked the order.
func mapOrderRejection(err error) (apierrors.ProblemDetail, bool) {
	var productErr *application.ProductUnavailableError
	if errors.As(err, &productErr) {
		return apierrors.ErrConflict.
			WithDetail(productErr.Error()).
			WithExtension("itemNumber", productErr.ItemNumber).
			WithExtension("resource", "product"), true
	}
	var serviceErr *application.ServiceUnavailableError
	if errors.As(err, &serviceErr) {
		return apierrors.ErrConflict.
			WithDetail(serviceErr.Error()).
			WithExtension("itemNumber", serviceErr.ItemNumber).
			WithExtension("resource", "service"), true
	}
	return apierrors.ProblemDetail{}, false
}

// mapLedgerError covers the sentinel errors the ledgers and registries hand
// back for state conflicts and invalid input.
func mapLedgerError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotRestockable),
		errors.Is(err, ports.ErrAlreadyRegistered),
		errors.Is(err, ports.ErrProviderRegistered),
		errors.Is(err, ports.ErrDiscontinued):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrNilOrder), errors.Is(err, application.ErrNilProvider):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
