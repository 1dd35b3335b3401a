package upsert_rule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rules/models"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

type fakeService struct {
	got *models.UpsertRuleRequest
	err error
}

func (f *fakeService) Upsert(_ context.Context, req *models.UpsertRuleRequest) (*domain.AvailabilityRule, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	id := int64(31)
	if req.ID != nil {
		id = *req.ID
	}
	return &domain.AvailabilityRule{ID: id, CompanyID: req.CompanyID, RoomID: req.RoomID,
		Type: domain.RuleType(req.Type), Value: req.Value, Priority: req.Priority, IsActive: true}, nil
}

func put(svc *fakeService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/rules", strings.NewReader(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(), 10, 1))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_CreatesRule(t *testing.T) {
	svc := &fakeService{}

	rec := put(svc, `{"roomId":7,"ruleType":"custom_price","ruleValue":{"amount":"120"},"priority":10,"activeFrom":"2025-06-02","activeTo":"2025-06-02"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(1), svc.got.CompanyID)
	assert.Equal(t, types.NewDate(2025, 6, 2), *svc.got.ActiveFrom)
	assert.JSONEq(t, `{"amount":"120"}`, string(svc.got.Value))

	var body models.RuleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "custom_price", body.Type)
	assert.Equal(t, 10, body.Priority)
}

func TestHandle_UpdatesRule(t *testing.T) {
	rec := put(&fakeService{}, `{"id":31,"ruleType":"blackout","priority":5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "unknown type", body: `{"ruleType":"surge","priority":1}`, wantStatus: http.StatusBadRequest},
		{name: "priority out of range", body: `{"ruleType":"blackout","priority":5000}`, wantStatus: http.StatusBadRequest},
		{name: "bad date", body: `{"ruleType":"blackout","priority":1,"activeFrom":"12/25"}`, wantStatus: http.StatusBadRequest},
		{name: "bad value", body: `{"ruleType":"min_stay","ruleValue":{"nights":0},"priority":1}`,
			err: domain.NewValidationError("rule_value", "nights must be positive"), wantStatus: http.StatusBadRequest},
		{name: "foreign room", body: `{"roomId":99,"ruleType":"blackout","priority":1}`,
			err: domain.NewNotFoundError("room", 99), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := put(&fakeService{err: tt.err}, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
