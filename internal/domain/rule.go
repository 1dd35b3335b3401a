package domain

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// RuleType тип правила доступности/цены
type RuleType string

const (
	RuleBlackout              RuleType = "blackout"
	RuleMinStay               RuleType = "min_stay"
	RuleCustomPrice           RuleType = "custom_price"
	RuleDayOfWeekAvailability RuleType = "day_of_week_availability"
)

// IsValid проверяет, что тип правила известен
func (t RuleType) IsValid() bool {
	switch t {
	case RuleBlackout, RuleMinStay, RuleCustomPrice, RuleDayOfWeekAvailability:
		return true
	default:
		return false
	}
}

// RuleField поле календаря, которое задаёт правило
type RuleField string

const (
	FieldAvailability RuleField = "availability"
	FieldPrice        RuleField = "price"
	FieldMinNights    RuleField = "min_nights"
)

// Field возвращает поле, которое правило данного типа задаёт
func (t RuleType) Field() RuleField {
	switch t {
	case RuleMinStay:
		return FieldMinNights
	case RuleCustomPrice:
		return FieldPrice
	default:
		return FieldAvailability
	}
}

// RuleScope область действия правила
type RuleScope string

const (
	ScopeCompany RuleScope = "company" // все номера компании
	ScopeRoom    RuleScope = "room"    // конкретный номер
)

// AvailabilityRule правило доступности или цены
// RoomID == nil означает правило на всю компанию
// ActiveFrom/ActiveTo включительно, nil = без ограничения
type AvailabilityRule struct {
	ID         int64
	CompanyID  int64
	RoomID     *int64
	Type       RuleType
	Value      json.RawMessage // исходный JSON, разбирается через DecodeRuleValue
	Priority   int
	ActiveFrom *time.Time
	ActiveTo   *time.Time
	IsActive   bool
	CreatedBy  *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Scope возвращает область действия правила
func (r *AvailabilityRule) Scope() RuleScope {
	if r.RoomID != nil {
		return ScopeRoom
	}
	return ScopeCompany
}

// IsRoomSpecific возвращает true для правила конкретного номера
func (r *AvailabilityRule) IsRoomSpecific() bool {
	return r.RoomID != nil
}

// AppliesTo проверяет, относится ли правило к номеру
func (r *AvailabilityRule) AppliesTo(room Room) bool {
	if r.CompanyID != room.CompanyID {
		return false
	}
	return r.RoomID == nil || *r.RoomID == room.ID
}

// Covers проверяет, что дата попадает в активный период правила
func (r *AvailabilityRule) Covers(date time.Time) bool {
	date = types.Date(date)
	if r.ActiveFrom != nil && date.Before(types.Date(*r.ActiveFrom)) {
		return false
	}
	if r.ActiveTo != nil && date.After(types.Date(*r.ActiveTo)) {
		return false
	}
	return true
}
