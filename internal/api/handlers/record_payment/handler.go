package record_payment

import (
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingIdentity      = "отсутствует ID пользователя или компании"
	msgInvalidPayment       = "некорректные параметры платежа"
	msgNotFound             = "бронирование не найдено"
	msgConflict             = "бронирование изменяется параллельно, повторите запрос"
)

type Handler struct {
	useCase RecordPaymentUseCase
	logger  Logger
}

func NewHandler(useCase RecordPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/payments - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/payments - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req RecordPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(companyID, userID, reservationID))
	if err != nil {
		if handlers.RespondDomainError(w, err, handlers.Messages{
			Validation: msgInvalidPayment,
			NotFound:   msgNotFound,
			Conflict:   msgConflict,
		}) {
			h.logger.Warn("POST /reservations/{id}/payments - Rejected: reservation_id=%d, error=%v", reservationID, err)
			return
		}
		h.logger.Error("POST /reservations/{id}/payments - Failed to record payment: reservation_id=%d, error=%v",
			reservationID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /reservations/{id}/payments - Payment recorded successfully: reservation_id=%d, payment_id=%d, confirmed=%t",
		reservationID, result.Payment.ID, result.Confirmed)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
