package order_post

import (
	"net/http"

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
	handlerLog := log.With(logger.NewField("handler", "order_post"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var orderCreateDTO dto.OrderCreate
	err := request.DecodeJSON(r, &orderCreateDTO, false)
	if err != nil {
		response.WriteBadRequest(w, h.log, err.Error())
		return
	}

	requester := auth.RequesterFromContext(r.Context())
	created, err := h.service.CreateOrder(r.Context(), requester, orderCreateDTO.ToEntity())
	if err != nil {
		response.WriteError(w, h.log, err)
		return
	}

	h.log.With(
		logger.NewField("order_id", created.ID),
		logger.NewField("order_number", created.OrderNumber),
		logger.NewField("user_id", created.UserID),
	).Info("order created")

	w.Header().Set("Location", "/orders/"+created.ID)
	response.WriteOrder(w, h.log, http.StatusCreated, created)
}
