package order_cancel_post

import (
	"net/http"

	"github.com/gorilla/mux"
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
	handlerLog := log.With(logger.NewField("handler", "order_cancel_post"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

// ServeHTTP accepts an empty body; the expected version may come from If-Match instead.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body dto.VersionedRequest
	err := request.DecodeJSON(r, &body, true)
	if err != nil {
		response.WriteBadRequest(w, h.log, err.Error())
		return
	}

	expectedVersion, err := request.ExpectedVersion(r, body.Version)
	if err != nil {
		response.WriteBadRequest(w, h.log, err.Error())
		return
	}

	requester := auth.RequesterFromContext(r.Context())
	cancelled, err := h.service.CancelOrder(r.Context(), requester, mux.Vars(r)["id"], expectedVersion)
	if err != nil {
		response.WriteError(w, h.log, err)
		return
	}

	h.log.With(
		logger.NewField("order_id", cancelled.ID),
		logger.NewField("requester", requester.ID),
	).Info("order cancelled")

	response.WriteOrder(w, h.log, http.StatusOK, cancelled)
}
