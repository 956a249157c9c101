package order_delete

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
	handlerLog := log.With(logger.NewField("handler", "order_delete"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	requester := auth.RequesterFromContext(r.Context())

	err := h.service.DeleteOrder(r.Context(), requester, orderID)
	if err != nil {
		response.WriteError(w, h.log, err)
		return
	}

	h.log.With(
		logger.NewField("order_id", orderID),
		logger.NewField("requester", requester.ID),
	).Info("order deleted")

	w.WriteHeader(http.StatusNoContent)
}
