// Package blockexpander разворачивает периоды блокировки номеров в конкретные даты.
package blockexpander

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Occurrence дата, закрытая блокировкой
type Occurrence struct {
	PeriodID int64
	Reason   string
}

// Expander разворачивает блокировки
// Повторяющиеся блокировки разворачиваются не дальше now + HorizonDays
type Expander struct {
	HorizonDays int
}

// New создает Expander, horizonDays <= 0 заменяется значением по умолчанию
func New(horizonDays int) *Expander {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	return &Expander{HorizonDays: horizonDays}
}

// Dates все даты периода в пределах окна, по возрастанию
func (e *Expander) Dates(period *domain.RoomBlockPeriod, window types.DateRange, now time.Time) []time.Time {
	start := types.Date(period.StartDate)
	last := types.Date(period.EndDate)
	if last.Before(start) {
		return nil
	}

	if !period.IsRecurring || period.RecurrencePattern == nil {
		span := period.Span()
		inter, ok := span.Intersect(window)
		if !ok {
			return nil
		}
		return inter.Days()
	}

	horizon := types.Date(now).AddDate(0, 0, e.horizonDays())
	if horizon.Before(last) {
		last = horizon
	}

	var dates []time.Time
	add := func(d time.Time) {
		if window.Contains(d) {
			dates = append(dates, d)
		}
	}

	switch *period.RecurrencePattern {
	case domain.RecurrenceWeekly:
		for d := start; !d.After(last); d = d.AddDate(0, 0, 7) {
			if !d.Before(window.End) {
				break
			}
			add(d)
		}

	case domain.RecurrenceMonthly:
		day := start.Day()
		for i := 0; ; i++ {
			// первое число месяца, затем нужный день; AddDate со сдвигом дня нормализует 31 апреля в 1 мая
			monthStart := time.Date(start.Year(), start.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
			if monthStart.After(last) || !monthStart.Before(window.End) {
				break
			}
			d := monthStart.AddDate(0, 0, day-1)
			if d.Month() != monthStart.Month() {
				continue // в месяце нет такого дня
			}
			if d.After(last) {
				break
			}
			add(d)
		}
	}

	return dates
}

// ForRoom даты окна, закрытые блокировками номера (своими и общими для компании)
// При совпадении дат побеждает период с меньшим ID
func (e *Expander) ForRoom(periods []*domain.RoomBlockPeriod, room domain.Room, window types.DateRange, now time.Time) map[time.Time]Occurrence {
	applicable := make([]*domain.RoomBlockPeriod, 0, len(periods))
	for _, p := range periods {
		if p != nil && p.IsActive && p.AppliesToRoom(room) {
			applicable = append(applicable, p)
		}
	}
	sort.Slice(applicable, func(i, j int) bool { return applicable[i].ID < applicable[j].ID })

	result := make(map[time.Time]Occurrence)
	for _, p := range applicable {
		for _, d := range e.Dates(p, window, now) {
			if _, taken := result[d]; taken {
				continue
			}
			result[d] = Occurrence{PeriodID: p.ID, Reason: p.Reason}
		}
	}
	return result
}

func (e *Expander) horizonDays() int {
	if e.HorizonDays <= 0 {
		return domain.DefaultHorizonDays
	}
	return e.HorizonDays
}
