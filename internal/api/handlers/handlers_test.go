package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

var testMsgs = Messages{
	Validation:  "validation",
	NotFound:    "not found",
	Unavailable: "unavailable",
	Conflict:    "conflict",
}

func TestRespondDomainError_StatusMapping(t *testing.T) {
	date := types.NewDate(2025, 6, 3)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		handled    bool
	}{
		{name: "validation", err: domain.NewValidationError("checkOutDate", "must be after check-in"), wantStatus: http.StatusBadRequest, handled: true},
		{name: "transition", err: &domain.TransitionError{ReservationID: 1, From: domain.StatusCancelled, To: domain.StatusConfirmed}, wantStatus: http.StatusBadRequest, handled: true},
		{name: "min stay", err: &domain.MinStayError{RoomID: 7, Date: date, MinNights: 3, Nights: 1}, wantStatus: http.StatusBadRequest, handled: true},
		{name: "not found", err: domain.NewNotFoundError("room", 7), wantStatus: http.StatusNotFound, handled: true},
		{name: "unavailable", err: &domain.RoomUnavailableError{RoomID: 7, Date: date, Reason: domain.UnavailableReserved}, wantStatus: http.StatusConflict, handled: true},
		{name: "conflict", err: &domain.ConflictError{RoomID: 7}, wantStatus: http.StatusConflict, handled: true},
		{name: "wrapped not found", err: fmt.Errorf("outer: %w", domain.NewNotFoundError("reservation", 1)), wantStatus: http.StatusNotFound, handled: true},
		{name: "internal", err: errors.New("connection reset"), handled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handled := RespondDomainError(rec, tt.err, testMsgs)

			assert.Equal(t, tt.handled, handled)
			if tt.handled {
				assert.Equal(t, tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestRespondDomainError_UnavailableBody(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, &domain.RoomUnavailableError{
		RoomID: 7, Date: types.NewDate(2025, 6, 3), Reason: domain.UnavailableReserved, ReservationID: ptr.Ptr(int64(11)),
	}, testMsgs)

	var body UnavailableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-06-03", body.Date)
	assert.Equal(t, domain.UnavailableReserved, body.Reason)
	assert.Equal(t, int64(11), *body.ReservationID)
}

func TestRespondDomainError_ConflictIsRetryable(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, &domain.ConflictError{RoomID: 7, Date: ptr.Ptr(types.NewDate(2025, 6, 2))}, testMsgs)

	var body ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Retryable)
	assert.Equal(t, "2025-06-02", *body.Date)
}

func TestRespondDomainError_ValidationField(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, domain.NewValidationError("numberOfGuests", "exceeds capacity 2"), testMsgs)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "numberOfGuests", body.Field)
}

type decodeTarget struct {
	RoomID int64  `json:"roomId" validate:"required,gt=0"`
	Method string `json:"method" validate:"required,oneof=cash card"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"roomId":7,"method":"card"}`},
		{name: "missing required", body: `{"method":"card"}`, wantErr: true},
		{name: "oneof", body: `{"roomId":7,"method":"barter"}`, wantErr: true},
		{name: "unknown field", body: `{"roomId":7,"method":"card","extra":1}`, wantErr: true},
		{name: "malformed", body: `{"roomId":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst decodeTarget
			err := DecodeJSON(req, &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), dst.RoomID)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.ErrorIs(t, DecodeJSON(req, &decodeTarget{}), ErrEmptyBody)
}

func TestQueryDate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?from=2025-06-01&to=06/04/2025", nil)

	from, err := QueryDate(req, "from")
	require.NoError(t, err)
	assert.Equal(t, types.NewDate(2025, 6, 1), from)

	_, err = QueryDate(req, "to")
	assert.ErrorIs(t, err, ErrInvalidParam)

	_, err = QueryDate(req, "missing")
	assert.ErrorIs(t, err, ErrInvalidParam)
}
