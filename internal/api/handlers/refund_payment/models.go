package refund_payment

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/service/payments/models"
)

// RefundPaymentRequest HTTP request model
// Без amount возвращается весь невозвращённый остаток платежа
type RefundPaymentRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Notes  *string          `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RefundPaymentRequest) ToServiceRequest(companyID, userID, reservationID, paymentID int64) *models.RefundRequest {
	return &models.RefundRequest{
		CompanyID:     companyID,
		ReservationID: reservationID,
		PaymentID:     paymentID,
		Amount:        r.Amount,
		Notes:         r.Notes,
		CreatedBy:     &userID,
	}
}
