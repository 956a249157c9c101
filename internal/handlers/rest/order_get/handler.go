package order_get

import (
	"net/http"

	"github.com/gorilla/mux"
	"orderflow/internal/handlers/rest/response"
	"orderflow/internal/pkg/middlewares/auth"
	"orderflow/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "order_get"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	order, err := h.service.GetOrder(r.Context(), auth.RequesterFromContext(r.Context()), orderID)
	if err != nil {
		response.WriteError(w, h.log, err)
		return
	}

	response.WriteOrder(w, h.log, http.StatusOK, order)
}
