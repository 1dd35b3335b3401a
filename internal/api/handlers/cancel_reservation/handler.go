package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingIdentity      = "отсутствует ID пользователя или компании"
	msgNotFound             = "бронирование не найдено"
	msgCannotCancel         = "бронирование не может быть отменено"
	msgConflict             = "бронирование изменяется параллельно, повторите запрос"
)

type Handler struct {
	useCase CancelReservationUseCase
	logger  Logger
}

func NewHandler(useCase CancelReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	// Тело необязательно: отмена без причины
	var req CancelReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	res, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(companyID, reservationID))
	if err != nil {
		if handlers.RespondDomainError(w, err, handlers.Messages{
			Validation: msgCannotCancel,
			NotFound:   msgNotFound,
			Conflict:   msgConflict,
		}) {
			h.logger.Warn("PATCH /reservations/{id}/cancel - Rejected: reservation_id=%d, error=%v", reservationID, err)
			return
		}
		h.logger.Error("PATCH /reservations/{id}/cancel - Failed to cancel reservation: reservation_id=%d, error=%v",
			reservationID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /reservations/{id}/cancel - Reservation cancelled successfully: reservation_id=%d, company_id=%d",
		reservationID, companyID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(res))
}
