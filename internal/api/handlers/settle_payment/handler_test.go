package settle_payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	recordPayment "github.com/m04kA/SMC-RoomReservationService/internal/usecase/record_payment"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
)

type fakeUseCase struct {
	got *recordPayment.SettleRequest
	err error
}

func (f *fakeUseCase) Settle(_ context.Context, req *recordPayment.SettleRequest) (*recordPayment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	total := decimal.NewFromInt(300)
	return &recordPayment.Response{
		Payment: &domain.ReservationPayment{ID: req.PaymentID, ReservationID: req.ReservationID, Amount: total,
			Method: domain.PaymentMethod("online"), Status: domain.PaymentStatus(req.Status)},
		Balance: &domain.Balance{ReservationID: req.ReservationID, Total: total, Paid: total, Refunded: decimal.Zero,
			Outstanding: decimal.Zero, IsFullyPaid: true},
		Reservation: &domain.Reservation{ID: req.ReservationID, Status: domain.StatusConfirmed, TotalAmount: total},
		Confirmed:   true,
	}, nil
}

func patch(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/reservations/{reservationId}/payments/{paymentId}", NewHandler(uc, logger.NewNop()).Handle)
	req := httptest.NewRequest(http.MethodPatch, "/reservations/11/payments/21", strings.NewReader(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(), 10, 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_SettledAndConfirmed(t *testing.T) {
	uc := &fakeUseCase{}

	rec := patch(uc, `{"status":"completed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &recordPayment.SettleRequest{CompanyID: 1, ReservationID: 11, PaymentID: 21, Status: "completed"}, uc.got)

	var body SettlePaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Confirmed)
	require.NotNil(t, body.Reservation)
	assert.Equal(t, string(domain.StatusConfirmed), string(body.Reservation.Status))
}

func TestHandle_Rejections(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, patch(&fakeUseCase{}, `{"status":"refunded"}`).Code)

	closed := &fakeUseCase{err: domain.NewValidationError("reservation", "cannot accept payments in status cancelled")}
	assert.Equal(t, http.StatusBadRequest, patch(closed, `{"status":"completed"}`).Code)

	missing := &fakeUseCase{err: domain.NewNotFoundError("payment", 21)}
	assert.Equal(t, http.StatusNotFound, patch(missing, `{"status":"completed"}`).Code)
}
