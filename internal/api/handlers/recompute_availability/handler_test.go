package recompute_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/calendar"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

var horizon = types.MustDateRange(types.NewDate(2025, 6, 1), types.NewDate(2026, 6, 1))

type fakeCalendar struct {
	room *domain.Room
	got  *types.DateRange
}

func (f *fakeCalendar) GetRoom(_ context.Context, roomID int64) (*domain.Room, error) {
	if f.room == nil || f.room.ID != roomID {
		return nil, domain.NewNotFoundError("room", roomID)
	}
	return f.room, nil
}

func (f *fakeCalendar) Recompute(_ context.Context, roomID int64, dates types.DateRange) (*calendar.RecomputeResult, error) {
	f.got = &dates
	return &calendar.RecomputeResult{
		RoomID: roomID, Range: dates, Updated: 3,
		Conflicts: []calendar.Conflict{{Date: types.NewDate(2025, 6, 2), ReservationID: 11, Reason: domain.UnavailableBlocked}},
	}, nil
}

func (f *fakeCalendar) Horizon() types.DateRange { return horizon }

func post(cal *fakeCalendar, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/rooms/{roomId}/availability/recompute", NewHandler(cal, logger.NewNop()).Handle)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	}
	req = req.WithContext(middleware.WithIdentity(req.Context(), 10, 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_RangeReportsConflicts(t *testing.T) {
	cal := &fakeCalendar{room: &domain.Room{ID: 7, CompanyID: 1}}

	rec := post(cal, "/rooms/7/availability/recompute", `{"from":"2025-06-01","to":"2025-06-05"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, cal.got.Nights())

	var body RecomputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Updated)
	require.Len(t, body.Conflicts, 1)
	assert.Equal(t, "2025-06-02", body.Conflicts[0].Date)
	assert.Equal(t, int64(11), body.Conflicts[0].ReservationID)
}

func TestHandle_DefaultsToHorizon(t *testing.T) {
	cal := &fakeCalendar{room: &domain.Room{ID: 7, CompanyID: 1}}

	rec := post(cal, "/rooms/7/availability/recompute", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, horizon, *cal.got)
}

func TestHandle_Rejections(t *testing.T) {
	other := &fakeCalendar{room: &domain.Room{ID: 7, CompanyID: 2}}
	rec := post(other, "/rooms/7/availability/recompute", "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "rooms of other companies are hidden")
	assert.Nil(t, other.got)

	rec = post(&fakeCalendar{}, "/rooms/7/availability/recompute", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	own := &fakeCalendar{room: &domain.Room{ID: 7, CompanyID: 1}}
	rec = post(own, "/rooms/7/availability/recompute", `{"from":"2025-06-05","to":"2025-06-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
