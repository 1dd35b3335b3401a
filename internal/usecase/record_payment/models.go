package record_payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// ConfirmPolicy когда completed-платёж подтверждает pending-бронирование
type ConfirmPolicy string

const (
	ConfirmOnFirstPayment ConfirmPolicy = "first_payment" // первый завершённый платёж
	ConfirmOnFullPayment  ConfirmPolicy = "full_payment"  // только при полной оплате
)

// ParseConfirmPolicy разбирает политику из конфигурации, пустая строка = first_payment
func ParseConfirmPolicy(s string) (ConfirmPolicy, error) {
	switch ConfirmPolicy(s) {
	case "", ConfirmOnFirstPayment:
		return ConfirmOnFirstPayment, nil
	case ConfirmOnFullPayment:
		return ConfirmOnFullPayment, nil
	default:
		return "", fmt.Errorf("unknown confirm policy %q", s)
	}
}

// Request модель запроса на запись платежа
type Request struct {
	CompanyID     int64
	ReservationID int64
	Amount        decimal.Decimal
	Method        string
	Status        *string // по умолчанию completed
	PaymentDate   *time.Time
	Notes         *string
	CreatedBy     *int64
}

// SettleRequest модель запроса на проведение pending-платежа
type SettleRequest struct {
	CompanyID     int64
	ReservationID int64
	PaymentID     int64
	Status        string // completed или failed
}

// Response модель ответа: платёж, баланс и итоговое состояние бронирования
type Response struct {
	Payment     *domain.ReservationPayment
	Balance     *domain.Balance
	Reservation *domain.Reservation
	Confirmed   bool // платёж подтвердил бронирование
}
