package orders_get

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"orderflow/internal/entities"
	"orderflow/internal/handlers/rest/dto"
	"orderflow/internal/handlers/rest/response"
	"orderflow/internal/pkg/middlewares/auth"
	"orderflow/internal/service/order"
	"orderflow/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "orders_get"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		response.WriteError(w, h.log, err)
		return
	}

	orders, err := h.service.ListOrders(r.Context(), auth.RequesterFromContext(r.Context()), filter)
	if err != nil {
		response.WriteError(w, h.log, err)
		return
	}

	response.WriteJSON(w, h.log, http.StatusOK, dto.FromOrders(orders))
}

// parseFilter reads status, orderType, user, limit and offset. The user filter
// is only honoured for admins; the service pins regular users to themselves.
func parseFilter(query url.Values) (entities.OrderFilter, error) {
	var filter entities.OrderFilter

	if raw := query.Get("status"); raw != "" {
		status, ok := entities.ParseOrderStatus(raw)
		if !ok {
			return filter, fmt.Errorf("%w: unknown status %q", order.ErrInvalidFilter, raw)
		}
		filter.Status = &status
	}

	if raw := query.Get("orderType"); raw != "" {
		orderType, ok := entities.ParseOrderType(raw)
		if !ok {
			return filter, fmt.Errorf("%w: unknown order type %q", order.ErrInvalidFilter, raw)
		}
		filter.OrderType = &orderType
	}

	if raw := query.Get("user"); raw != "" {
		filter.UserID = &raw
	}

	var err error
	filter.Limit, err = parseUint(query, "limit")
	if err != nil {
		return filter, err
	}
	filter.Offset, err = parseUint(query, "offset")
	if err != nil {
		return filter, err
	}

	return filter, nil
}

func parseUint(query url.Values, name string) (uint64, error) {
	raw := query.Get(name)
	if raw == "" {
		return 0, nil
	}
	// Postgres LIMIT/OFFSET are bigint.
	value, err := strconv.ParseUint(raw, 10, 63)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %s must not exceed %d", order.ErrInvalidFilter, name, uint64(math.MaxInt64))
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", order.ErrInvalidFilter, name)
	}
	return value, nil
}
