package settle_payment

import (
	paymentModels "github.com/m04kA/SMC-RoomReservationService/internal/service/payments/models"
	reservationModels "github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
	recordPayment "github.com/m04kA/SMC-RoomReservationService/internal/usecase/record_payment"
)

// SettlePaymentRequest HTTP request model
type SettlePaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=completed failed"`
}

// SettlePaymentResponse HTTP response model
type SettlePaymentResponse struct {
	Payment     *paymentModels.PaymentResponse         `json:"payment"`
	Balance     *paymentModels.BalanceResponse         `json:"balance"`
	Reservation *reservationModels.ReservationResponse `json:"reservation"`
	Confirmed   bool                                   `json:"confirmed"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *recordPayment.Response) *SettlePaymentResponse {
	return &SettlePaymentResponse{
		Payment:     paymentModels.FromDomainPayment(resp.Payment),
		Balance:     paymentModels.FromDomainBalance(resp.Balance),
		Reservation: reservationModels.FromDomainReservation(resp.Reservation),
		Confirmed:   resp.Confirmed,
	}
}
