package update_reservation_status

import (
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса, статус должен быть confirmed, checked_in или checked_out"
	msgMissingIdentity      = "отсутствует ID пользователя или компании"
	msgNotFound             = "бронирование не найдено"
	msgInvalidTransition    = "недопустимый переход статуса бронирования"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/status - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/status - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	res, err := h.service.UpdateStatus(r.Context(), &models.UpdateStatusRequest{
		CompanyID:     companyID,
		ReservationID: reservationID,
		Status:        req.Status,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err, handlers.Messages{
			Validation: msgInvalidTransition,
			NotFound:   msgNotFound,
		}) {
			h.logger.Warn("PATCH /reservations/{id}/status - Rejected: reservation_id=%d, status=%s, error=%v",
				reservationID, req.Status, err)
			return
		}
		h.logger.Error("PATCH /reservations/{id}/status - Failed to update status: reservation_id=%d, error=%v",
			reservationID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /reservations/{id}/status - Status updated successfully: reservation_id=%d, status=%s",
		reservationID, res.Status)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(res))
}
