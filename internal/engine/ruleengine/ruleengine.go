// Package ruleengine вычисляет доступность, цену и минимальный срок проживания
// номера на дату по набору правил компании и номера.
//
// Для каждого поля календаря выбирается одно правило-победитель:
// больший приоритет, затем правило номера раньше правила компании,
// затем более раннее создание, затем меньший ID.
// Для доступности при равном приоритете blackout сортируется раньше,
// поэтому перекрыть его может только правило со строго большим приоритетом.
package ruleengine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// compiledRule правило с уже разобранным значением
type compiledRule struct {
	rule  *domain.AvailabilityRule
	value domain.RuleValue
}

// RuleSet скомпилированный набор правил, упорядоченный по полям
type RuleSet struct {
	availability []compiledRule
	price        []compiledRule
	minStay      []compiledRule
	issues       []*domain.RuleEvaluationError
}

// Evaluation результат вычисления правил для даты
type Evaluation struct {
	Date               time.Time
	IsAvailable        bool
	Price              decimal.Decimal  // итоговая цена ночи
	CustomPrice        *decimal.Decimal // nil, если действует базовая цена
	MinNights          *int
	AvailabilityRuleID *int64
	PriceRuleID        *int64
	MinStayRuleID      *int64
}

// Compile разбирает значения правил один раз
// Неактивные правила отбрасываются, правила с некорректным значением пропускаются и попадают в Issues
func Compile(rules []*domain.AvailabilityRule) *RuleSet {
	rs := &RuleSet{}

	for _, rule := range rules {
		if rule == nil || !rule.IsActive {
			continue
		}

		value, err := domain.DecodeRuleValue(rule.Type, rule.Value)
		if err != nil {
			rs.issues = append(rs.issues, &domain.RuleEvaluationError{RuleID: rule.ID, Type: rule.Type, Cause: err})
			continue
		}

		cr := compiledRule{rule: rule, value: value}
		switch rule.Type.Field() {
		case domain.FieldPrice:
			rs.price = append(rs.price, cr)
		case domain.FieldMinNights:
			rs.minStay = append(rs.minStay, cr)
		default:
			rs.availability = append(rs.availability, cr)
		}
	}

	sortRules(rs.price, false)
	sortRules(rs.minStay, false)
	sortRules(rs.availability, true)

	return rs
}

// Issues правила, пропущенные при компиляции
func (rs *RuleSet) Issues() []*domain.RuleEvaluationError {
	return rs.issues
}

// Evaluate вычисляет состояние даты для номера
// Без подходящих правил: доступно, базовая цена, без минимального срока
func (rs *RuleSet) Evaluate(room domain.Room, date time.Time) Evaluation {
	date = types.Date(date)
	eval := Evaluation{
		Date:        date,
		IsAvailable: true,
		Price:       room.BasePrice,
	}

	if winner := firstMatch(rs.availability, room, date); winner != nil {
		eval.AvailabilityRuleID = &winner.rule.ID
		switch v := winner.value.(type) {
		case domain.BlackoutValue:
			eval.IsAvailable = false
		case domain.DayOfWeekValue:
			eval.IsAvailable = v.Allows(date)
		}
	}

	if winner := firstMatch(rs.price, room, date); winner != nil {
		if v, ok := winner.value.(domain.CustomPriceValue); ok {
			amount := v.Amount
			eval.Price = amount
			eval.CustomPrice = &amount
			eval.PriceRuleID = &winner.rule.ID
		}
	}

	if winner := firstMatch(rs.minStay, room, date); winner != nil {
		if v, ok := winner.value.(domain.MinStayValue); ok {
			nights := v.Nights
			eval.MinNights = &nights
			eval.MinStayRuleID = &winner.rule.ID
		}
	}

	return eval
}

// EvaluateRange вычисляет состояние всех дат диапазона
func (rs *RuleSet) EvaluateRange(room domain.Room, r types.DateRange) []Evaluation {
	days := r.Days()
	result := make([]Evaluation, 0, len(days))
	for _, d := range days {
		result = append(result, rs.Evaluate(room, d))
	}
	return result
}

// firstMatch первое по порядку правило, действующее для номера и даты
func firstMatch(rules []compiledRule, room domain.Room, date time.Time) *compiledRule {
	for i := range rules {
		r := rules[i].rule
		if r.AppliesTo(room) && r.Covers(date) {
			return &rules[i]
		}
	}
	return nil
}

// sortRules упорядочивает правила по убыванию силы
func sortRules(rules []compiledRule, blackoutFirst bool) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i].rule, rules[j].rule
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if blackoutFirst {
			aBlack, bBlack := a.Type == domain.RuleBlackout, b.Type == domain.RuleBlackout
			if aBlack != bBlack {
				return aBlack
			}
		}
		if a.IsRoomSpecific() != b.IsRoomSpecific() {
			return a.IsRoomSpecific()
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
