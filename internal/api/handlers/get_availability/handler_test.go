package get_availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/calendar"
	getAvailability "github.com/m04kA/SMC-RoomReservationService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

type fakeUseCase struct {
	got  *getAvailability.Request
	resp *getAvailability.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/rooms/{roomId}/availability", NewHandler(uc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	total := decimal.NewFromInt(300)
	uc := &fakeUseCase{resp: &getAvailability.Response{
		RoomID: 7, From: types.NewDate(2025, 6, 1), To: types.NewDate(2025, 6, 4),
		Bookable: true, Total: &total,
		Days: []calendar.Day{
			{Date: types.NewDate(2025, 6, 1), Available: true, Price: decimal.NewFromInt(100)},
			{Date: types.NewDate(2025, 6, 2), Available: true, Price: decimal.NewFromInt(100)},
			{Date: types.NewDate(2025, 6, 3), Available: true, Price: decimal.NewFromInt(100)},
		},
	}}

	rec := serve(uc, "/rooms/7/availability?from=2025-06-01&to=2025-06-04")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), uc.got.RoomID)
	assert.Equal(t, types.NewDate(2025, 6, 4), uc.got.To)

	var body AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Bookable)
	assert.True(t, body.Total.Equal(total))
	require.Len(t, body.Days, 3)
	assert.Equal(t, "2025-06-03", body.Days[2].Date)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "bad room id", target: "/rooms/x/availability?from=2025-06-01&to=2025-06-04", wantStatus: http.StatusBadRequest},
		{name: "missing to", target: "/rooms/7/availability?from=2025-06-01", wantStatus: http.StatusBadRequest},
		{name: "bad date", target: "/rooms/7/availability?from=01.06.2025&to=2025-06-04", wantStatus: http.StatusBadRequest},
		{name: "range rejected", target: "/rooms/7/availability?from=2025-06-04&to=2025-06-01",
			err: domain.NewValidationError("to", "must be after from"), wantStatus: http.StatusBadRequest},
		{name: "unknown room", target: "/rooms/7/availability?from=2025-06-01&to=2025-06-04",
			err: domain.NewNotFoundError("room", 7), wantStatus: http.StatusNotFound},
		{name: "internal", target: "/rooms/7/availability?from=2025-06-01&to=2025-06-04",
			err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
