package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// ReservationStatus статус бронирования
type ReservationStatus string

const (
	StatusPending    ReservationStatus = "pending"     // создано, ожидает оплаты/подтверждения
	StatusConfirmed  ReservationStatus = "confirmed"   // подтверждено
	StatusCheckedIn  ReservationStatus = "checked_in"  // гость заселился
	StatusCheckedOut ReservationStatus = "checked_out" // гость выехал
	StatusCancelled  ReservationStatus = "cancelled"   // отменено
)

// transitions допустимые переходы статусов
// pending -> confirmed -> checked_in -> checked_out, отмена из любого живого статуса
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut, StatusCancelled},
}

// IsValid проверяет, что статус известен
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal возвращает true для конечных статусов
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

// IsLive возвращает true, если бронирование удерживает даты
func (s ReservationStatus) IsLive() bool {
	for _, live := range LiveStatuses {
		if s == live {
			return true
		}
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation бронирование номера
// CheckInDate включается, CheckOutDate нет: ночи = CheckOutDate - CheckInDate
type Reservation struct {
	ID                 int64
	CompanyID          int64
	CustomerID         int64
	RoomID             int64
	CheckInDate        time.Time
	CheckOutDate       time.Time
	NumberOfGuests     int
	Status             ReservationStatus
	RoomRate           decimal.Decimal // цена первой ночи
	TotalAmount        decimal.Decimal
	NumberOfNights     int
	Notes              *string
	CreatedBy          *int64
	CancellationReason *string
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Range диапазон ночей бронирования
func (r *Reservation) Range() types.DateRange {
	return types.DateRange{Start: types.Date(r.CheckInDate), End: types.Date(r.CheckOutDate)}
}

// CanBeCancelled проверяет, можно ли отменить бронирование
func (r *Reservation) CanBeCancelled() bool {
	return r.Status.CanTransitionTo(StatusCancelled)
}

// TransitionTo проверяет переход и меняет статус
func (r *Reservation) TransitionTo(next ReservationStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return &TransitionError{ReservationID: r.ID, From: r.Status, To: next}
	}
	r.Status = next
	return nil
}

// ReservationFilter фильтр списка бронирований номера
type ReservationFilter struct {
	CompanyID int64
	RoomID    int64
	Range     *types.DateRange    // только пересекающиеся с диапазоном
	Statuses  []ReservationStatus // пусто = любые
}
