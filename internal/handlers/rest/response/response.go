package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"orderflow/internal/entities"
	"orderflow/internal/handlers/rest/dto"
	"orderflow/internal/service/order"
	"orderflow/pkg/logger"
)

const internalErrorMessage = "internal server error"

type handlerLogger interface {
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

func WriteJSON(w http.ResponseWriter, log handlerLogger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}

// WriteOrder writes the order with its version as a strong ETag.
func WriteOrder(w http.ResponseWriter, log handlerLogger, status int, o *entities.Order) {
	w.Header().Set("ETag", ETag(o.Version))
	WriteJSON(w, log, status, dto.FromOrder(o))
}

func ETag(version int64) string {
	return `"` + strconv.FormatInt(version, 10) + `"`
}

func WriteBadRequest(w http.ResponseWriter, log handlerLogger, message string) {
	WriteJSON(w, log, http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

// WriteError maps an order workflow error to its HTTP status. Unclassified
// errors are logged and hidden behind a generic message.
func WriteError(w http.ResponseWriter, log handlerLogger, err error) {
	status, kind := classify(err)
	if status == http.StatusInternalServerError {
		log.With(
			logger.NewField("error", err),
		).Error("order request failed")
		WriteJSON(w, log, status, dto.ErrorResponse{Error: internalErrorMessage})
		return
	}

	WriteJSON(w, log, status, dto.ErrorResponse{Error: message(err, kind)})
}

func classify(err error) (int, error) {
	switch {
	case errors.Is(err, order.ErrUnauthenticated):
		return http.StatusUnauthorized, order.ErrValidation
	case errors.Is(err, order.ErrValidation):
		return http.StatusBadRequest, order.ErrValidation
	case errors.Is(err, order.ErrForbidden):
		return http.StatusForbidden, order.ErrForbidden
	case errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound, order.ErrNotFound
	case errors.Is(err, order.ErrInvalidState):
		return http.StatusConflict, order.ErrInvalidState
	case errors.Is(err, order.ErrVersionConflict):
		return http.StatusPreconditionFailed, order.ErrConflict
	case errors.Is(err, order.ErrConflict):
		return http.StatusConflict, order.ErrConflict
	default:
		return http.StatusInternalServerError, nil
	}
}

// message drops the kind prefix and any operation prefixes in front of it,
// so "get order: not found: order not found" becomes "order not found".
func message(err error, kind error) string {
	text := err.Error()
	prefix := kind.Error() + ": "
	if i := strings.Index(text, prefix); i >= 0 {
		return text[i+len(prefix):]
	}
	return text
}
