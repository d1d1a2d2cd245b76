package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/abdurrazzak7395/travelapi/internal/aggregator"
	"github.com/abdurrazzak7395/travelapi/internal/cache"
	"github.com/abdurrazzak7395/travelapi/internal/models"
	"github.com/abdurrazzak7395/travelapi/internal/supplier"
)

const defaultPageSize = 50

type SearchHandler struct {
	aggregator *aggregator.Aggregator
	cache      cache.Cache
	pricers    map[string]supplier.Pricer
}

func NewSearchHandler(agg *aggregator.Aggregator, c cache.Cache, pricers map[string]supplier.Pricer) *SearchHandler {
	return &SearchHandler{
		aggregator: agg,
		cache:      c,
		pricers:    pricers,
	}
}

func (h *SearchHandler) CombinedSearch(c echo.Context) error {
	ctx := c.Request().Context()

	page, size, err := paginationParams(c)
	if err != nil {
		return validationError(c, err.Error())
	}

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return validationError(c, err.Error())
	}

	if offers, found := h.cache.Get(ctx, &req); found {
		return c.JSON(http.StatusOK, aggregator.Paginate(offers, page, size))
	}

	result, err := h.aggregator.Search(ctx, &req)
	if err != nil {
		return h.searchError(c, err)
	}

	// Only fully successful fan-outs are cached so that a recovered supplier
	// is not masked by an earlier partial result.
	if len(result.Failures) == 0 {
		_ = h.cache.Set(ctx, &req, result.Offers)
	}

	return c.JSON(http.StatusOK, aggregator.Paginate(result.Offers, page, size))
}

// OfferPrice re-prices offers from an earlier search. The supplier prefix on
// the offer IDs routes the call back to the supplier that produced them.
func (h *SearchHandler) OfferPrice(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.OfferPriceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if len(req.OfferIDs) == 0 {
		return validationError(c, "at least one offer id is required")
	}

	source, ok := supplier.OfferSource(req.OfferIDs[0])
	if !ok {
		return validationError(c, fmt.Sprintf("offer id has no supplier prefix: %s", req.OfferIDs[0]))
	}

	pricer, ok := h.pricers[source]
	if !ok {
		return validationError(c, fmt.Sprintf("Invalid source specified: %s", source))
	}

	native := make([]string, 0, len(req.OfferIDs))
	for _, id := range req.OfferIDs {
		s, ok := supplier.OfferSource(id)
		if !ok || s != source {
			return validationError(c, "offer ids must belong to a single supplier")
		}
		native = append(native, supplier.NativeOfferID(id))
	}

	raw, err := pricer.Price(ctx, req.TraceID, native)
	if err != nil {
		return supplierError(c, source, err)
	}

	return c.JSON(http.StatusOK, models.OfferPriceResponse{Source: source, Data: raw})
}

// Balance builds a handler for one supplier's account-balance endpoint.
func Balance(name string, checker supplier.BalanceChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := checker.Balance(c.Request().Context())
		if err != nil {
			return supplierError(c, name, err)
		}
		return c.JSON(http.StatusOK, models.BalanceResponse{Source: name, Data: raw})
	}
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *SearchHandler) searchError(c echo.Context, err error) error {
	var unknown *aggregator.UnknownSourceError
	if errors.As(err, &unknown) {
		return validationError(c, unknown.Error())
	}

	var allFailed *aggregator.AllSuppliersFailedError
	if errors.As(err, &allFailed) {
		failures := make([]models.SupplierFailure, 0, len(allFailed.Failures))
		for _, f := range allFailed.Failures {
			failures = append(failures, models.SupplierFailure{Supplier: f.Supplier, Error: f.Err.Error()})
		}
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:    "all_suppliers_failed",
			Message:  "All suppliers failed to return results.",
			Code:     http.StatusBadGateway,
			Failures: failures,
		})
	}

	log.Printf("combined search failed: %v", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An unexpected error occurred.",
		Code:    http.StatusInternalServerError,
	})
}

func supplierError(c echo.Context, name string, err error) error {
	log.Printf("supplier %s call failed: %v", name, err)

	var upstream *supplier.UpstreamError
	var transport *supplier.TransportError
	var decode *supplier.DecodeError
	var auth *supplier.AuthenticationError
	if errors.As(err, &upstream) || errors.As(err, &transport) || errors.As(err, &decode) || errors.As(err, &auth) {
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "supplier_error",
			Message: err.Error(),
			Code:    http.StatusBadGateway,
		})
	}

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An unexpected error occurred.",
		Code:    http.StatusInternalServerError,
	})
}

func validationError(c echo.Context, message string) error {
	return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Error:   "validation_error",
		Message: message,
		Code:    http.StatusUnprocessableEntity,
	})
}

func paginationParams(c echo.Context) (int, int, error) {
	page, err := intQuery(c, "page", 1)
	if err != nil || page < 1 {
		return 0, 0, models.ErrInvalidPage
	}
	size, err := intQuery(c, "size", defaultPageSize)
	if err != nil || size < 1 {
		return 0, 0, models.ErrInvalidSize
	}
	return page, size, nil
}

func intQuery(c echo.Context, name string, defaultValue int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}
