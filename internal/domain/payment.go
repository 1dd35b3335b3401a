package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus статус платежа
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded" // запись возврата, ссылается на исходный платёж
)

// IsValid проверяет, что статус известен
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	default:
		return false
	}
}

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodOnline       PaymentMethod = "online"
	MethodOther        PaymentMethod = "other"
)

// IsValid проверяет, что способ оплаты известен
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodOnline, MethodOther:
		return true
	default:
		return false
	}
}

// ReservationPayment запись журнала платежей
// Записи не изменяются, кроме перевода pending в completed/failed
// Возврат оформляется новой записью со статусом refunded
type ReservationPayment struct {
	ID                int64
	CompanyID         int64
	ReservationID     int64
	Amount            decimal.Decimal
	Method            PaymentMethod
	Status            PaymentStatus
	PaymentDate       time.Time
	RefundOfPaymentID *int64
	Notes             *string
	CreatedBy         *int64
	CreatedAt         time.Time
}

// Balance состояние оплаты бронирования
type Balance struct {
	ReservationID int64
	Total         decimal.Decimal
	Paid          decimal.Decimal // сумма completed
	Refunded      decimal.Decimal // сумма refunded
	Outstanding   decimal.Decimal // Total - Paid + Refunded
	IsFullyPaid   bool
}

// ComputeBalance считает баланс по журналу: Total - Σ completed + Σ refunded
func ComputeBalance(reservationID int64, total decimal.Decimal, payments []*ReservationPayment) Balance {
	paid := decimal.Zero
	refunded := decimal.Zero
	for _, p := range payments {
		switch p.Status {
		case PaymentCompleted:
			paid = paid.Add(p.Amount)
		case PaymentRefunded:
			refunded = refunded.Add(p.Amount)
		}
	}

	outstanding := total.Sub(paid).Add(refunded)
	return Balance{
		ReservationID: reservationID,
		Total:         total,
		Paid:          paid,
		Refunded:      refunded,
		Outstanding:   outstanding,
		IsFullyPaid:   !outstanding.IsPositive(),
	}
}

// RefundedAmount сумма уже оформленных возвратов по платежу
func RefundedAmount(paymentID int64, payments []*ReservationPayment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.Status == PaymentRefunded && p.RefundOfPaymentID != nil && *p.RefundOfPaymentID == paymentID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}
