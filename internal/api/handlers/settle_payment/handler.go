package settle_payment

import (
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	recordPayment "github.com/m04kA/SMC-RoomReservationService/internal/usecase/record_payment"
)

const (
	msgInvalidID          = "некорректный ID бронирования или платежа"
	msgInvalidRequestBody = "некорректное тело запроса, статус должен быть completed или failed"
	msgMissingIdentity    = "отсутствует ID пользователя или компании"
	msgCannotSettle       = "платёж уже проведён или бронирование не принимает платежи"
	msgNotFound           = "платёж не найден"
)

type Handler struct {
	useCase SettlePaymentUseCase
	logger  Logger
}

func NewHandler(useCase SettlePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/payments/{paymentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/payments/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}
	paymentID, err := handlers.PathInt64(r, "paymentId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/payments/{id} - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/payments/{id} - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req SettlePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/payments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Settle(r.Context(), &recordPayment.SettleRequest{
		CompanyID:     companyID,
		ReservationID: reservationID,
		PaymentID:     paymentID,
		Status:        req.Status,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err, handlers.Messages{
			Validation: msgCannotSettle,
			NotFound:   msgNotFound,
		}) {
			h.logger.Warn("PATCH /reservations/{id}/payments/{id} - Rejected: payment_id=%d, error=%v", paymentID, err)
			return
		}
		h.logger.Error("PATCH /reservations/{id}/payments/{id} - Failed to settle payment: payment_id=%d, error=%v", paymentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /reservations/{id}/payments/{id} - Payment settled successfully: payment_id=%d, status=%s, confirmed=%t",
		paymentID, resp.Payment.Status, resp.Confirmed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
