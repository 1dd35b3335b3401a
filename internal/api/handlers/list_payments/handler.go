package list_payments

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

// PaymentListResponse HTTP response model
type PaymentListResponse struct {
	Payments []*models.PaymentResponse `json:"payments"`
}

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

// Handle GET /api/v1/reservations/{reservationId}/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("GET /reservations/{id}/payments - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /reservations/{id}/payments - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	list, err := h.service.List(r.Context(), companyID, reservationID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /reservations/{id}/payments - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /reservations/{id}/payments - Failed to list payments: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp := PaymentListResponse{Payments: make([]*models.PaymentResponse, 0, len(list))}
	for _, p := range list {
		resp.Payments = append(resp.Payments, models.FromDomainPayment(p))
	}

	h.logger.Info("GET /reservations/{id}/payments - Payments retrieved successfully: reservation_id=%d, count=%d",
		reservationID, len(list))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
