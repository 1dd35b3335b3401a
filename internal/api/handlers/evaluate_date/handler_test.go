package evaluate_date

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/engine/ruleengine"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
)

type fakeCalendar struct {
	room *domain.Room
}

func (f *fakeCalendar) GetRoom(_ context.Context, roomID int64) (*domain.Room, error) {
	if f.room == nil {
		return nil, domain.NewNotFoundError("room", roomID)
	}
	return f.room, nil
}

func (f *fakeCalendar) Evaluate(_ context.Context, _ int64, date time.Time) (*ruleengine.Evaluation, error) {
	custom := decimal.RequireFromString("180.00")
	return &ruleengine.Evaluation{
		Date: date, IsAvailable: true, Price: custom, CustomPrice: &custom,
		PriceRuleID: ptr.Ptr(int64(4)),
	}, nil
}

func get(cal *fakeCalendar, query string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/rooms/{roomId}/availability/evaluate", NewHandler(cal, logger.NewNop()).Handle)
	req := httptest.NewRequest(http.MethodGet, "/rooms/7/availability/evaluate"+query, nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), 10, 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	own := &fakeCalendar{room: &domain.Room{ID: 7, CompanyID: 1}}

	rec := get(own, "?date=2025-07-04")
	require.Equal(t, http.StatusOK, rec.Code)

	var body EvaluationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-07-04", body.Date)
	assert.True(t, body.Price.Equal(decimal.RequireFromString("180")))
	assert.Equal(t, int64(4), *body.PriceRuleID)
	assert.Nil(t, body.MinStayRuleID)
}

func TestHandle_Rejections(t *testing.T) {
	own := &fakeCalendar{room: &domain.Room{ID: 7, CompanyID: 1}}

	assert.Equal(t, http.StatusBadRequest, get(own, "").Code)
	assert.Equal(t, http.StatusBadRequest, get(own, "?date=tomorrow").Code)
	assert.Equal(t, http.StatusNotFound, get(&fakeCalendar{room: &domain.Room{ID: 7, CompanyID: 2}}, "?date=2025-07-04").Code)
	assert.Equal(t, http.StatusNotFound, get(&fakeCalendar{}, "?date=2025-07-04").Code)
}
