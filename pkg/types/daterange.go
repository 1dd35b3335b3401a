package types

import (
	"errors"
	"fmt"
	"time"
)

// DateFormat формат календарной даты (YYYY-MM-DD)
const DateFormat = "2006-01-02"

var (
	// ErrInvalidDateRange возвращается, если конец диапазона не позже начала
	ErrInvalidDateRange = errors.New("invalid date range: end must be after start")

	// ErrInvalidDateFormat возвращается при ошибке разбора даты
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
)

// Date нормализует момент времени до полуночи UTC того же календарного дня
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDate создает календарную дату
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return t, nil
}

// FormatDate форматирует дату в YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// DaysBetween количество дней от a до b (может быть отрицательным)
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)).Hours() / 24)
}

// DateRange полуоткрытый диапазон дат [Start, End)
// Для бронирования Start = дата заезда, End = дата выезда, ночи = End - Start
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange создает диапазон, End должен быть строго позже Start
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Date(start), End: Date(end)}
	if !r.End.After(r.Start) {
		return DateRange{}, fmt.Errorf("%w: %s..%s", ErrInvalidDateRange, FormatDate(r.Start), FormatDate(r.End))
	}
	return r, nil
}

// MustDateRange как NewDateRange, но паникует при ошибке (для констант и тестов)
func MustDateRange(start, end time.Time) DateRange {
	r, err := NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// InclusiveRange диапазон, включающий обе даты [first, last]
func InclusiveRange(first, last time.Time) (DateRange, error) {
	return NewDateRange(first, Date(last).AddDate(0, 0, 1))
}

// Nights количество ночей (дней) в диапазоне
func (r DateRange) Nights() int {
	return DaysBetween(r.Start, r.End)
}

// IsEmpty возвращает true для пустого диапазона
func (r DateRange) IsEmpty() bool {
	return !r.End.After(r.Start)
}

// Last последняя дата, входящая в диапазон
func (r DateRange) Last() time.Time {
	return r.End.AddDate(0, 0, -1)
}

// Contains проверяет, входит ли дата в диапазон
func (r DateRange) Contains(date time.Time) bool {
	d := Date(date)
	return !d.Before(r.Start) && d.Before(r.End)
}

// Overlaps проверяет пересечение полуоткрытых диапазонов
// Диапазоны, которые только касаются (выезд = заезд), не пересекаются
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Intersect возвращает пересечение диапазонов
func (r DateRange) Intersect(other DateRange) (DateRange, bool) {
	start := r.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := r.End
	if other.End.Before(end) {
		end = other.End
	}
	if !end.After(start) {
		return DateRange{}, false
	}
	return DateRange{Start: start, End: end}, true
}

// Union наименьший диапазон, покрывающий оба
func (r DateRange) Union(other DateRange) DateRange {
	start := r.Start
	if other.Start.Before(start) {
		start = other.Start
	}
	end := r.End
	if other.End.After(end) {
		end = other.End
	}
	return DateRange{Start: start, End: end}
}

// Days все даты диапазона по порядку
func (r DateRange) Days() []time.Time {
	n := r.Nights()
	if n <= 0 {
		return []time.Time{}
	}
	days := make([]time.Time, 0, n)
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// String "YYYY-MM-DD..YYYY-MM-DD" (End не включается)
func (r DateRange) String() string {
	return FormatDate(r.Start) + ".." + FormatDate(r.End)
}
