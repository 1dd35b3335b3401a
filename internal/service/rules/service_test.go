package rules

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rules/models"
	"github.com/m04kA/SMC-RoomReservationService/internal/testutil/memstore"
	"github.com/m04kA/SMC-RoomReservationService/internal/worker/recompute"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

type fixedHorizon struct{ r types.DateRange }

func (h fixedHorizon) Horizon() types.DateRange { return h.r }

type recordingQueue struct {
	jobs []recompute.Job
}

func (q *recordingQueue) Enqueue(job recompute.Job) {
	q.jobs = append(q.jobs, job)
}

func (q *recordingQueue) rooms() []int64 {
	ids := make([]int64, 0, len(q.jobs))
	for _, j := range q.jobs {
		ids = append(ids, j.RoomID)
	}
	sort.Slice(ids, func(i, k int) bool { return ids[i] < ids[k] })
	return ids
}

var horizon = types.MustDateRange(types.NewDate(2025, 5, 1), types.NewDate(2026, 5, 1))

func newTestService() (*Service, *memstore.Store, *recordingQueue) {
	store := memstore.New()
	store.AddRoom(domain.Room{ID: 7, CompanyID: 1, BasePrice: decimal.NewFromInt(100), MaxOccupancy: 2})
	store.AddRoom(domain.Room{ID: 8, CompanyID: 1, BasePrice: decimal.NewFromInt(80), MaxOccupancy: 2})
	store.AddRoom(domain.Room{ID: 9, CompanyID: 2, BasePrice: decimal.NewFromInt(90), MaxOccupancy: 2})

	queue := &recordingQueue{}
	svc := NewService(store.Rules(), store.Catalog(), fixedHorizon{r: horizon}, queue, logger.NewNop())
	return svc, store, queue
}

func TestService_Upsert_CreatesRoomRule(t *testing.T) {
	svc, _, queue := newTestService()

	saved, err := svc.Upsert(context.Background(), &models.UpsertRuleRequest{
		CompanyID:  1,
		RoomID:     ptr.Ptr(int64(7)),
		Type:       "custom_price",
		Value:      json.RawMessage(`{"amount": "120"}`),
		Priority:   10,
		ActiveFrom: ptr.Ptr(types.NewDate(2025, 6, 1)),
		ActiveTo:   ptr.Ptr(types.NewDate(2025, 6, 30)),
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.True(t, saved.IsActive)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, int64(7), queue.jobs[0].RoomID)
	assert.Equal(t, types.MustDateRange(types.NewDate(2025, 6, 1), types.NewDate(2025, 7, 1)), queue.jobs[0].Range)
}

func TestService_Upsert_CompanyRuleSchedulesEveryRoom(t *testing.T) {
	svc, _, queue := newTestService()

	_, err := svc.Upsert(context.Background(), &models.UpsertRuleRequest{
		CompanyID:  1,
		Type:       "blackout",
		ActiveFrom: ptr.Ptr(types.NewDate(2025, 12, 25)),
		ActiveTo:   ptr.Ptr(types.NewDate(2025, 12, 25)),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{7, 8}, queue.rooms())
	for _, job := range queue.jobs {
		assert.Equal(t, 1, job.Range.Nights())
	}
}

func TestService_Upsert_UpdateCoversOldAndNewRange(t *testing.T) {
	svc, _, queue := newTestService()
	ctx := context.Background()

	created, err := svc.Upsert(ctx, &models.UpsertRuleRequest{
		CompanyID: 1, RoomID: ptr.Ptr(int64(7)), Type: "min_stay", Value: json.RawMessage(`{"nights":2}`),
		ActiveFrom: ptr.Ptr(types.NewDate(2025, 6, 1)), ActiveTo: ptr.Ptr(types.NewDate(2025, 6, 10)),
	})
	require.NoError(t, err)
	queue.jobs = nil

	updated, err := svc.Upsert(ctx, &models.UpsertRuleRequest{
		CompanyID: 1, ID: ptr.Ptr(created.ID), RoomID: ptr.Ptr(int64(7)), Type: "min_stay", Value: json.RawMessage(`{"nights":3}`),
		ActiveFrom: ptr.Ptr(types.NewDate(2025, 7, 1)), ActiveTo: ptr.Ptr(types.NewDate(2025, 7, 5)),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, types.MustDateRange(types.NewDate(2025, 6, 1), types.NewDate(2025, 7, 6)), queue.jobs[0].Range)
}

func TestService_Upsert_ClipsToHorizon(t *testing.T) {
	svc, _, queue := newTestService()

	_, err := svc.Upsert(context.Background(), &models.UpsertRuleRequest{
		CompanyID: 1, RoomID: ptr.Ptr(int64(7)), Type: "blackout",
		ActiveFrom: ptr.Ptr(types.NewDate(2024, 1, 1)),
	})
	require.NoError(t, err)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, horizon, queue.jobs[0].Range)

	queue.jobs = nil
	_, err = svc.Upsert(context.Background(), &models.UpsertRuleRequest{
		CompanyID: 1, RoomID: ptr.Ptr(int64(7)), Type: "blackout",
		ActiveFrom: ptr.Ptr(types.NewDate(2024, 1, 1)), ActiveTo: ptr.Ptr(types.NewDate(2024, 1, 31)),
	})
	require.NoError(t, err)
	assert.Empty(t, queue.jobs, "rules entirely in the past schedule nothing")
}

func TestService_Upsert_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     models.UpsertRuleRequest
		wantErr error
	}{
		{name: "unknown type", req: models.UpsertRuleRequest{CompanyID: 1, Type: "surge"}, wantErr: domain.ErrValidation},
		{name: "malformed value", req: models.UpsertRuleRequest{CompanyID: 1, Type: "min_stay", Value: json.RawMessage(`{"nights":"two"}`)}, wantErr: domain.ErrValidation},
		{name: "min stay out of range", req: models.UpsertRuleRequest{CompanyID: 1, Type: "min_stay", Value: json.RawMessage(`{"nights":0}`)}, wantErr: domain.ErrValidation},
		{name: "negative price", req: models.UpsertRuleRequest{CompanyID: 1, Type: "custom_price", Value: json.RawMessage(`{"amount":-5}`)}, wantErr: domain.ErrValidation},
		{name: "priority too high", req: models.UpsertRuleRequest{CompanyID: 1, Type: "blackout", Priority: 5000}, wantErr: domain.ErrValidation},
		{
			name: "inverted range",
			req: models.UpsertRuleRequest{
				CompanyID: 1, Type: "blackout",
				ActiveFrom: ptr.Ptr(types.NewDate(2025, 6, 10)), ActiveTo: ptr.Ptr(types.NewDate(2025, 6, 1)),
			},
			wantErr: domain.ErrValidation,
		},
		{name: "room of another company", req: models.UpsertRuleRequest{CompanyID: 1, RoomID: ptr.Ptr(int64(9)), Type: "blackout"}, wantErr: domain.ErrNotFound},
		{name: "unknown room", req: models.UpsertRuleRequest{CompanyID: 1, RoomID: ptr.Ptr(int64(99)), Type: "blackout"}, wantErr: domain.ErrNotFound},
		{name: "unknown rule id", req: models.UpsertRuleRequest{CompanyID: 1, ID: ptr.Ptr(int64(99)), Type: "blackout"}, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, queue := newTestService()

			_, err := svc.Upsert(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, queue.jobs)
		})
	}
}

func TestService_ListAndDeactivate(t *testing.T) {
	svc, _, queue := newTestService()
	ctx := context.Background()

	saved, err := svc.Upsert(ctx, &models.UpsertRuleRequest{CompanyID: 1, RoomID: ptr.Ptr(int64(8)), Type: "blackout"})
	require.NoError(t, err)
	queue.jobs = nil

	err = svc.Deactivate(ctx, 2, saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "other companies cannot touch the rule")

	require.NoError(t, svc.Deactivate(ctx, 1, saved.ID))
	assert.Equal(t, []int64{8}, queue.rooms())

	active, err := svc.List(ctx, &models.ListRulesRequest{CompanyID: 1})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(ctx, &models.ListRulesRequest{CompanyID: 1, IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)
}
