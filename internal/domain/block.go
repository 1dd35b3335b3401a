package domain

import (
	"time"

	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// RecurrencePattern шаблон повторения блокировки
type RecurrencePattern string

const (
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
)

// IsValid проверяет, что шаблон повторения известен
func (p RecurrencePattern) IsValid() bool {
	return p == RecurrenceWeekly || p == RecurrenceMonthly
}

// RoomBlockPeriod период блокировки номера владельцем (ремонт, личное использование)
// RoomID == nil означает блокировку всех номеров компании
// StartDate/EndDate включительно
// Для повторяющейся блокировки StartDate задаёт первое вхождение, EndDate ограничивает повторения
type RoomBlockPeriod struct {
	ID                int64
	CompanyID         int64
	RoomID            *int64
	StartDate         time.Time
	EndDate           time.Time
	Reason            string
	IsRecurring       bool
	RecurrencePattern *RecurrencePattern
	IsActive          bool
	CreatedBy         *int64
	CreatedAt         time.Time
}

// AppliesToRoom проверяет, относится ли блокировка к номеру
func (b *RoomBlockPeriod) AppliesToRoom(room Room) bool {
	if b.CompanyID != room.CompanyID {
		return false
	}
	return b.RoomID == nil || *b.RoomID == room.ID
}

// Span диапазон [StartDate, EndDate + 1 день)
func (b *RoomBlockPeriod) Span() types.DateRange {
	return types.DateRange{Start: types.Date(b.StartDate), End: types.Date(b.EndDate).AddDate(0, 0, 1)}
}

// Validate проверяет корректность периода
func (b *RoomBlockPeriod) Validate() error {
	if b.CompanyID <= 0 {
		return NewValidationError("company_id", "must be positive")
	}
	if b.RoomID != nil && *b.RoomID <= 0 {
		return NewValidationError("room_id", "must be positive")
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return NewValidationError("start_date", "start and end dates are required")
	}
	if types.Date(b.EndDate).Before(types.Date(b.StartDate)) {
		return NewValidationError("end_date", "must not be before start_date")
	}
	if len(b.Reason) > MaxBlockReasonLength {
		return NewValidationError("reason", "must be at most %d characters", MaxBlockReasonLength)
	}
	if b.IsRecurring {
		if b.RecurrencePattern == nil {
			return NewValidationError("recurrence_pattern", "is required for a recurring block")
		}
		if !b.RecurrencePattern.IsValid() {
			return NewValidationError("recurrence_pattern", "unknown pattern %q", *b.RecurrencePattern)
		}
	} else if b.RecurrencePattern != nil {
		return NewValidationError("recurrence_pattern", "is only allowed for a recurring block")
	}
	return nil
}
