package update_reservation_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
)

type fakeService struct {
	got *models.UpdateStatusRequest
	err error
}

func (f *fakeService) UpdateStatus(_ context.Context, req *models.UpdateStatusRequest) (*domain.Reservation, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Reservation{ID: req.ReservationID, Status: domain.ReservationStatus(req.Status)}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "confirm", body: `{"status":"confirmed"}`, wantStatus: http.StatusOK},
		{name: "cancel is not a status update", body: `{"status":"cancelled"}`, wantStatus: http.StatusBadRequest},
		{name: "invalid transition", body: `{"status":"checked_out"}`,
			err: &domain.TransitionError{ReservationID: 11, From: domain.StatusPending, To: domain.StatusCheckedOut}, wantStatus: http.StatusBadRequest},
		{name: "not found", body: `{"status":"confirmed"}`, err: domain.NewNotFoundError("reservation", 11), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			r := mux.NewRouter()
			r.HandleFunc("/reservations/{reservationId}/status", NewHandler(svc, logger.NewNop()).Handle)
			req := httptest.NewRequest(http.MethodPatch, "/reservations/11/status", strings.NewReader(tt.body))
			req = req.WithContext(middleware.WithIdentity(req.Context(), 10, 1))
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, int64(1), svc.got.CompanyID)
				assert.Equal(t, int64(11), svc.got.ReservationID)
			}
		})
	}
}
