package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// EventType тип события бронирования, он же routing key
type EventType string

const (
	ReservationCreated   EventType = "reservation.created"
	ReservationCancelled EventType = "reservation.cancelled"
	ReservationConfirmed EventType = "reservation.confirmed"
)

// Types все типы событий, для них объявляются очереди
var Types = []EventType{ReservationCreated, ReservationCancelled, ReservationConfirmed}

// ReservationEvent событие жизненного цикла бронирования
type ReservationEvent struct {
	EventID       string          `json:"event_id"`
	Type          EventType       `json:"type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	ReservationID int64           `json:"reservation_id"`
	CompanyID     int64           `json:"company_id"`
	RoomID        int64           `json:"room_id"`
	CustomerID    int64           `json:"customer_id"`
	CheckInDate   string          `json:"check_in_date"`
	CheckOutDate  string          `json:"check_out_date"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Reason        *string         `json:"reason,omitempty"`
}

// NewReservationEvent собирает событие по бронированию
func NewReservationEvent(t EventType, r *domain.Reservation, now time.Time) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          t,
		OccurredAt:    now.UTC(),
		ReservationID: r.ID,
		CompanyID:     r.CompanyID,
		RoomID:        r.RoomID,
		CustomerID:    r.CustomerID,
		CheckInDate:   r.CheckInDate.Format(domain.DateFormat),
		CheckOutDate:  r.CheckOutDate.Format(domain.DateFormat),
		Status:        string(r.Status),
		TotalAmount:   r.TotalAmount,
		Reason:        r.CancellationReason,
	}
}
