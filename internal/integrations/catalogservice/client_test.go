package catalogservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestClient_GetRoom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/rooms/7":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":7,"company_id":1,"name":"Deluxe","base_price":"100.50","max_occupancy":3}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, BreakerSettings{}, nopLogger{})

	room, err := c.GetRoom(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), room.CompanyID)
	assert.True(t, room.BasePrice.Equal(decimal.RequireFromString("100.50")))
	assert.Equal(t, 3, room.MaxOccupancy)

	_, err = c.GetRoom(context.Background(), 8)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestClient_ListCompanyRooms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/companies/1/rooms", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":7,"company_id":1,"base_price":100,"max_occupancy":2},{"id":8,"company_id":1,"base_price":80,"max_occupancy":1}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, BreakerSettings{}, nopLogger{})

	rooms, err := c.ListCompanyRooms(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, int64(8), rooms[1].ID)
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute}, nopLogger{})

	for i := 0; i < 2; i++ {
		_, err := c.GetRoom(context.Background(), 7)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	}

	_, err := c.GetRoom(context.Background(), 7)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, BreakerSettings{MaxFailures: 1, OpenTimeout: time.Minute}, nopLogger{})

	for i := 0; i < 3; i++ {
		_, err := c.GetRoom(context.Background(), 7)
		assert.ErrorIs(t, err, ErrRoomNotFound)
	}
}
