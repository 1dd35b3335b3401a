package refund_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/payments/models"
)

const (
	msgInvalidID          = "некорректный ID бронирования или платежа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingIdentity    = "отсутствует ID пользователя или компании"
	msgInvalidRefund      = "возврат невозможен"
	msgNotFound           = "платёж не найден"
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

// Handle POST /api/v1/reservations/{reservationId}/payments/{paymentId}/refund
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/payments/{id}/refund - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}
	paymentID, err := handlers.PathInt64(r, "paymentId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/payments/{id}/refund - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	userID, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/payments/{id}/refund - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req RefundPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /reservations/{id}/payments/{id}/refund - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	refund, err := h.service.Refund(r.Context(), req.ToServiceRequest(companyID, userID, reservationID, paymentID))
	if err != nil {
		if handlers.RespondDomainError(w, err, handlers.Messages{
			Validation: msgInvalidRefund,
			NotFound:   msgNotFound,
		}) {
			h.logger.Warn("POST /reservations/{id}/payments/{id}/refund - Rejected: payment_id=%d, error=%v", paymentID, err)
			return
		}
		h.logger.Error("POST /reservations/{id}/payments/{id}/refund - Failed to refund: payment_id=%d, error=%v", paymentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /reservations/{id}/payments/{id}/refund - Refund recorded successfully: payment_id=%d, refund_id=%d, amount=%s",
		paymentID, refund.ID, refund.Amount)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainPayment(refund))
}
