package ping_get

import (
	"net/http"

	"orderflow/internal/handlers/rest/dto"
	"orderflow/internal/handlers/rest/response"
)

type Handler struct {
	log handlerLogger
}

func New(log handlerLogger) *Handler {
	return &Handler{
		log: log.With(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, h.log, http.StatusOK, dto.PingResponse{Message: "pong"})
}
