package order_status_patch

import (
	"net/http"

	"github.com/gorilla/mux"
	"orderflow/internal/entities"
	"orderflow/internal/handlers/rest/dto"
	"orderflow/internal/handlers/rest/request"
	"orderflow/internal/handlers/rest/response"
	"orderflow/internal/pkg/middlewares/auth"
	"orderflow/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "order_status_patch"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var statusUpdateDTO dto.StatusUpdate
	err := request.DecodeJSON(r, &statusUpdateDTO, false)
	if err != nil {
		response.WriteBadRequest(w, h.log, err.Error())
		return
	}

	expectedVersion, err := request.ExpectedVersion(r, statusUpdateDTO.Version)
	if err != nil {
		response.WriteBadRequest(w, h.log, err.Error())
		return
	}

	change := entities.StatusChange{
		OrderID:         mux.Vars(r)["id"],
		Status:          statusUpdateDTO.Status,
		Message:         statusUpdateDTO.Message,
		Override:        statusUpdateDTO.Override,
		ExpectedVersion: expectedVersion,
	}

	updated, err := h.service.UpdateStatus(r.Context(), auth.RequesterFromContext(r.Context()), change)
	if err != nil {
		response.WriteError(w, h.log, err)
		return
	}

	h.log.With(
		logger.NewField("order_id", updated.ID),
		logger.NewField("status", updated.Status.String()),
		logger.NewField("override", change.Override),
	).Info("order status updated")

	response.WriteOrder(w, h.log, http.StatusOK, updated)
}
