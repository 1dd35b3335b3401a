package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Request модели

// AddPaymentRequest запрос на добавление платежа
type AddPaymentRequest struct {
	CompanyID     int64
	ReservationID int64
	Amount        decimal.Decimal
	Method        string
	Status        *string // по умолчанию completed
	PaymentDate   *time.Time
	Notes         *string
	CreatedBy     *int64
}

// RefundRequest запрос на возврат по платежу
type RefundRequest struct {
	CompanyID     int64
	ReservationID int64
	PaymentID     int64
	Amount        *decimal.Decimal // nil = весь невозвращённый остаток
	Notes         *string
	CreatedBy     *int64
}

// Response модели

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID                int64           `json:"id"`
	ReservationID     int64           `json:"reservationId"`
	Amount            decimal.Decimal `json:"amount"`
	Method            string          `json:"method"`
	Status            string          `json:"status"`
	PaymentDate       time.Time       `json:"paymentDate"`
	RefundOfPaymentID *int64          `json:"refundOfPaymentId,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// BalanceResponse ответ с балансом бронирования
type BalanceResponse struct {
	ReservationID int64           `json:"reservationId"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Refunded      decimal.Decimal `json:"refunded"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	IsFullyPaid   bool            `json:"isFullyPaid"`
}

// Методы конвертации

// FromDomainPayment конвертирует domain модель в DTO
func FromDomainPayment(p *domain.ReservationPayment) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		ID:                p.ID,
		ReservationID:     p.ReservationID,
		Amount:            p.Amount,
		Method:            string(p.Method),
		Status:            string(p.Status),
		PaymentDate:       p.PaymentDate,
		RefundOfPaymentID: p.RefundOfPaymentID,
		Notes:             p.Notes,
		CreatedAt:         p.CreatedAt,
	}
}

// FromDomainBalance конвертирует баланс в DTO
func FromDomainBalance(b *domain.Balance) *BalanceResponse {
	if b == nil {
		return nil
	}
	return &BalanceResponse{
		ReservationID: b.ReservationID,
		Total:         b.Total,
		Paid:          b.Paid,
		Refunded:      b.Refunded,
		Outstanding:   b.Outstanding,
		IsFullyPaid:   b.IsFullyPaid,
	}
}
