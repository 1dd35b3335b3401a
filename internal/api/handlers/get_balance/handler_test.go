package get_balance

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

	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/payments/models"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
)

type fakeService struct {
	balance *domain.Balance
	err     error
}

func (f *fakeService) Balance(context.Context, int64, int64) (*domain.Balance, error) {
	return f.balance, f.err
}

func get(svc *fakeService) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/reservations/{reservationId}/balance", NewHandler(svc, logger.NewNop()).Handle)
	req := httptest.NewRequest(http.MethodGet, "/reservations/11/balance", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), 10, 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	rec := get(&fakeService{balance: &domain.Balance{
		ReservationID: 11, Total: decimal.NewFromInt(300), Paid: decimal.NewFromInt(300),
		Refunded: decimal.NewFromInt(50), Outstanding: decimal.NewFromInt(50),
	}})

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Outstanding.Equal(decimal.NewFromInt(50)))
	assert.False(t, body.IsFullyPaid)

	assert.Equal(t, http.StatusNotFound, get(&fakeService{err: domain.NewNotFoundError("reservation", 11)}).Code)
	assert.Equal(t, http.StatusInternalServerError, get(&fakeService{err: errors.New("boom")}).Code)
}
