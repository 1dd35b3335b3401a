package get_balance

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/payments/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingIdentity      = "отсутствует ID пользователя или компании"
	msgNotFound             = "бронирование не найдено"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations/{reservationId}/balance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("GET /reservations/{id}/balance - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /reservations/{id}/balance - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	balance, err := h.service.Balance(r.Context(), companyID, reservationID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /reservations/{id}/balance - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /reservations/{id}/balance - Failed to compute balance: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reservations/{id}/balance - Balance computed: reservation_id=%d, outstanding=%s",
		reservationID, balance.Outstanding)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBalance(balance))
}
