package blockexpander

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

var (
	room = domain.Room{ID: 7, CompanyID: 1}
	now  = types.NewDate(2025, 1, 1)
	year = types.MustDateRange(types.NewDate(2025, 1, 1), types.NewDate(2026, 1, 1))
)

func period(id int64, start, end time.Time) *domain.RoomBlockPeriod {
	return &domain.RoomBlockPeriod{
		ID:        id,
		CompanyID: 1,
		StartDate: start,
		EndDate:   end,
		Reason:    "maintenance",
		IsActive:  true,
	}
}

func recurring(p *domain.RoomBlockPeriod, pattern domain.RecurrencePattern) *domain.RoomBlockPeriod {
	p.IsRecurring = true
	p.RecurrencePattern = &pattern
	return p
}

func TestDates_SinglePeriodIsInclusive(t *testing.T) {
	e := New(365)
	p := period(1, types.NewDate(2025, 6, 1), types.NewDate(2025, 6, 3))

	dates := e.Dates(p, year, now)

	assert.Equal(t, []time.Time{
		types.NewDate(2025, 6, 1),
		types.NewDate(2025, 6, 2),
		types.NewDate(2025, 6, 3),
	}, dates)
}

func TestDates_ClippedToWindow(t *testing.T) {
	e := New(365)
	p := period(1, types.NewDate(2025, 6, 1), types.NewDate(2025, 6, 10))
	window := types.MustDateRange(types.NewDate(2025, 6, 8), types.NewDate(2025, 6, 20))

	dates := e.Dates(p, window, now)

	require.Len(t, dates, 3)
	assert.Equal(t, types.NewDate(2025, 6, 8), dates[0])
	assert.Equal(t, types.NewDate(2025, 6, 10), dates[2])
}

func TestDates_Weekly(t *testing.T) {
	e := New(365)
	p := recurring(period(1, types.NewDate(2025, 6, 2), types.NewDate(2025, 6, 30)), domain.RecurrenceWeekly)

	dates := e.Dates(p, year, now)

	assert.Equal(t, []time.Time{
		types.NewDate(2025, 6, 2),
		types.NewDate(2025, 6, 9),
		types.NewDate(2025, 6, 16),
		types.NewDate(2025, 6, 23),
		types.NewDate(2025, 6, 30),
	}, dates)
}

func TestDates_MonthlySkipsMissingDays(t *testing.T) {
	e := New(365)
	p := recurring(period(1, types.NewDate(2025, 1, 31), types.NewDate(2025, 6, 30)), domain.RecurrenceMonthly)

	dates := e.Dates(p, year, now)

	assert.Equal(t, []time.Time{
		types.NewDate(2025, 1, 31),
		types.NewDate(2025, 3, 31),
		types.NewDate(2025, 5, 31),
	}, dates)
}

func TestDates_RecurringBoundedByHorizon(t *testing.T) {
	e := New(30)
	p := recurring(period(1, types.NewDate(2025, 1, 1), types.NewDate(2030, 1, 1)), domain.RecurrenceWeekly)

	dates := e.Dates(p, year, now)

	require.NotEmpty(t, dates)
	last := dates[len(dates)-1]
	assert.False(t, last.After(now.AddDate(0, 0, 30)))
	assert.Len(t, dates, 5) // 1, 8, 15, 22, 29 января
}

func TestForRoom(t *testing.T) {
	e := New(365)
	companyWide := period(5, types.NewDate(2025, 6, 1), types.NewDate(2025, 6, 2))
	companyWide.Reason = "company event"
	roomOnly := period(3, types.NewDate(2025, 6, 2), types.NewDate(2025, 6, 3))
	roomOnly.RoomID = ptr.Ptr(int64(7))
	otherRoom := period(1, types.NewDate(2025, 6, 1), types.NewDate(2025, 6, 5))
	otherRoom.RoomID = ptr.Ptr(int64(8))
	inactive := period(2, types.NewDate(2025, 6, 4), types.NewDate(2025, 6, 4))
	inactive.IsActive = false

	occ := e.ForRoom([]*domain.RoomBlockPeriod{companyWide, roomOnly, otherRoom, inactive}, room, year, now)

	require.Len(t, occ, 3)
	assert.Equal(t, Occurrence{PeriodID: 5, Reason: "company event"}, occ[types.NewDate(2025, 6, 1)])
	assert.Equal(t, int64(3), occ[types.NewDate(2025, 6, 2)].PeriodID) // меньший ID побеждает
	assert.Equal(t, int64(3), occ[types.NewDate(2025, 6, 3)].PeriodID)
	_, blocked := occ[types.NewDate(2025, 6, 4)]
	assert.False(t, blocked)
}
