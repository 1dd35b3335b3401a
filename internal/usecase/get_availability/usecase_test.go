package get_availability

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/calendar"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

type fakeCalendar struct {
	days  []calendar.Day
	err   error
	calls int
}

func (f *fakeCalendar) GetAvailability(_ context.Context, _ int64, dates types.DateRange) ([]calendar.Day, error) {
	f.calls++
	return f.days, f.err
}

func day(d int, available bool, price int64) calendar.Day {
	return calendar.Day{Date: types.NewDate(2025, 6, d), Available: available, Price: decimal.NewFromInt(price)}
}

func TestExecute_BookablePeriod(t *testing.T) {
	cal := &fakeCalendar{days: []calendar.Day{day(1, true, 100), day(2, true, 150), day(3, true, 100)}}
	uc := NewUseCase(cal, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 7, From: types.NewDate(2025, 6, 1), To: types.NewDate(2025, 6, 4)})
	require.NoError(t, err)
	assert.True(t, resp.Bookable)
	require.NotNil(t, resp.Total)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(350)))
	assert.Len(t, resp.Days, 3)
}

func TestExecute_UnavailableNight(t *testing.T) {
	blocked := day(2, false, 100)
	blocked.Reason = domain.UnavailableBlocked
	cal := &fakeCalendar{days: []calendar.Day{day(1, true, 100), blocked, day(3, true, 100)}}
	uc := NewUseCase(cal, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 7, From: types.NewDate(2025, 6, 1), To: types.NewDate(2025, 6, 4)})
	require.NoError(t, err)
	assert.False(t, resp.Bookable)
	assert.Nil(t, resp.Total)
}

func TestExecute_MinStayNotMet(t *testing.T) {
	first := day(1, true, 100)
	first.MinNights = ptr.Ptr(3)
	cal := &fakeCalendar{days: []calendar.Day{first, day(2, true, 100)}}
	uc := NewUseCase(cal, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 7, From: types.NewDate(2025, 6, 1), To: types.NewDate(2025, 6, 3)})
	require.NoError(t, err)
	assert.False(t, resp.Bookable)
	assert.Equal(t, 3, *resp.MinNights)
}

func TestExecute_Validation(t *testing.T) {
	cal := &fakeCalendar{}
	uc := NewUseCase(cal, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{RoomID: 7, From: types.NewDate(2025, 6, 3), To: types.NewDate(2025, 6, 3)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Execute(context.Background(), &Request{RoomID: 0, From: types.NewDate(2025, 6, 1), To: types.NewDate(2025, 6, 3)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, cal.calls)
}
