package record_payment

import (
	"time"

	"github.com/shopspring/decimal"

	paymentModels "github.com/m04kA/SMC-RoomReservationService/internal/service/payments/models"
	reservationModels "github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
	recordPayment "github.com/m04kA/SMC-RoomReservationService/internal/usecase/record_payment"
)

// RecordPaymentRequest HTTP request model
// Amount принимает число или строку ("150.00")
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method" validate:"required,oneof=cash card bank_transfer online other"`
	Status      *string         `json:"status,omitempty" validate:"omitempty,oneof=pending completed failed"`
	PaymentDate *time.Time      `json:"paymentDate,omitempty"` // RFC 3339
	Notes       *string         `json:"notes,omitempty"`
}

// RecordPaymentResponse HTTP response model
type RecordPaymentResponse struct {
	Payment     *paymentModels.PaymentResponse         `json:"payment"`
	Balance     *paymentModels.BalanceResponse         `json:"balance"`
	Reservation *reservationModels.ReservationResponse `json:"reservation"`
	Confirmed   bool                                   `json:"confirmed"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RecordPaymentRequest) ToUseCaseRequest(companyID, userID, reservationID int64) *recordPayment.Request {
	return &recordPayment.Request{
		CompanyID:     companyID,
		ReservationID: reservationID,
		Amount:        r.Amount,
		Method:        r.Method,
		Status:        r.Status,
		PaymentDate:   r.PaymentDate,
		Notes:         r.Notes,
		CreatedBy:     &userID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *recordPayment.Response) *RecordPaymentResponse {
	return &RecordPaymentResponse{
		Payment:     paymentModels.FromDomainPayment(resp.Payment),
		Balance:     paymentModels.FromDomainBalance(resp.Balance),
		Reservation: reservationModels.FromDomainReservation(resp.Reservation),
		Confirmed:   resp.Confirmed,
	}
}
