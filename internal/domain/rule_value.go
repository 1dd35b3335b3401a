package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRuleValue значение правила не соответствует его типу
	ErrInvalidRuleValue = errors.New("invalid rule value")

	// ErrUnknownRuleType неизвестный тип правила
	ErrUnknownRuleType = errors.New("unknown rule type")
)

// RuleValue разобранное значение правила (tagged union по RuleType)
type RuleValue interface {
	RuleType() RuleType
}

// BlackoutValue дата закрыта для бронирования
type BlackoutValue struct{}

func (BlackoutValue) RuleType() RuleType { return RuleBlackout }

// MinStayValue минимальное количество ночей для заезда в дату
type MinStayValue struct {
	Nights int `json:"nights"`
}

func (MinStayValue) RuleType() RuleType { return RuleMinStay }

// CustomPriceValue цена за ночь вместо базовой цены номера
type CustomPriceValue struct {
	Amount decimal.Decimal `json:"amount"`
}

func (CustomPriceValue) RuleType() RuleType { return RuleCustomPrice }

// DayOfWeekValue номер доступен только в перечисленные дни недели
type DayOfWeekValue struct {
	Days []Weekday `json:"days"`
}

func (DayOfWeekValue) RuleType() RuleType { return RuleDayOfWeekAvailability }

// Allows проверяет, доступна ли дата по дню недели
func (v DayOfWeekValue) Allows(date time.Time) bool {
	wd := date.Weekday()
	for _, d := range v.Days {
		if time.Weekday(d) == wd {
			return true
		}
	}
	return false
}

// Weekday день недели в JSON: число 0-6 (0 = воскресенье) или английское название ("monday", "mon")
type Weekday time.Weekday

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

func (w *Weekday) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 || n > 6 {
			return fmt.Errorf("weekday %d out of range 0-6", n)
		}
		*w = Weekday(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("weekday must be a number or a name: %w", err)
	}
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return fmt.Errorf("unknown weekday %q", s)
	}
	*w = Weekday(wd)
	return nil
}

func (w Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(time.Weekday(w).String()))
}

// DecodeRuleValue разбирает JSON значения правила в конкретный тип
// Для blackout значение может быть пустым
func DecodeRuleValue(ruleType RuleType, raw json.RawMessage) (RuleValue, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	decode := func(dst interface{}) error {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidRuleValue, ruleType, err)
		}
		return nil
	}

	switch ruleType {
	case RuleBlackout:
		var v BlackoutValue
		if err := decode(&v); err != nil {
			return nil, err
		}
		return v, nil

	case RuleMinStay:
		var v MinStayValue
		if err := decode(&v); err != nil {
			return nil, err
		}
		if v.Nights < 1 || v.Nights > MaxMinStayNights {
			return nil, fmt.Errorf("%w: min_stay nights must be in 1..%d, got %d", ErrInvalidRuleValue, MaxMinStayNights, v.Nights)
		}
		return v, nil

	case RuleCustomPrice:
		var v CustomPriceValue
		if err := decode(&v); err != nil {
			return nil, err
		}
		if v.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: custom_price amount must not be negative, got %s", ErrInvalidRuleValue, v.Amount)
		}
		return v, nil

	case RuleDayOfWeekAvailability:
		var v DayOfWeekValue
		if err := decode(&v); err != nil {
			return nil, err
		}
		if v.Days == nil {
			return nil, fmt.Errorf("%w: day_of_week_availability requires days", ErrInvalidRuleValue)
		}
		return v, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleType, ruleType)
	}
}

// EncodeRuleValue сериализует значение правила в JSON для хранения
func EncodeRuleValue(v RuleValue) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRuleValue, err)
	}
	return data, nil
}
