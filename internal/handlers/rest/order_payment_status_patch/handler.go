package order_payment_status_patch

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
	handlerLog := log.With(logger.NewField("handler", "order_payment_status_patch"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var paymentDTO dto.PaymentStatusUpdate
	err := request.DecodeJSON(r, &paymentDTO, false)
	if err != nil {
		response.WriteBadRequest(w, h.log, err.Error())
		return
	}

	expectedVersion, err := request.ExpectedVersion(r, paymentDTO.Version)
	if err != nil {
		response.WriteBadRequest(w, h.log, err.Error())
		return
	}

	verification := entities.PaymentVerification{
		OrderID:         mux.Vars(r)["id"],
		PaymentStatus:   paymentDTO.PaymentStatus,
		ExpectedVersion: expectedVersion,
	}

	updated, err := h.service.VerifyPayment(r.Context(), auth.RequesterFromContext(r.Context()), verification)
	if err != nil {
		response.WriteError(w, h.log, err)
		return
	}

	h.log.With(
		logger.NewField("order_id", updated.ID),
		logger.NewField("payment_status", updated.PaymentStatus.String()),
		logger.NewField("status", updated.Status.String()),
	).Info("order payment status updated")

	response.WriteOrder(w, h.log, http.StatusOK, updated)
}
