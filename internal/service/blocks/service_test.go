package blocks

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/blocks/models"
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

var horizon = types.MustDateRange(types.NewDate(2025, 5, 1), types.NewDate(2026, 5, 1))

func newTestService() (*Service, *recordingQueue) {
	store := memstore.New()
	store.AddRoom(domain.Room{ID: 7, CompanyID: 1, BasePrice: decimal.NewFromInt(100), MaxOccupancy: 2})
	store.AddRoom(domain.Room{ID: 8, CompanyID: 1, BasePrice: decimal.NewFromInt(80), MaxOccupancy: 2})
	store.AddRoom(domain.Room{ID: 9, CompanyID: 2, BasePrice: decimal.NewFromInt(90), MaxOccupancy: 2})

	queue := &recordingQueue{}
	return NewService(store.Blocks(), store.Catalog(), fixedHorizon{r: horizon}, queue, logger.NewNop()), queue
}

func TestService_Create(t *testing.T) {
	svc, queue := newTestService()

	saved, err := svc.Create(context.Background(), &models.CreateBlockRequest{
		CompanyID: 1,
		RoomID:    ptr.Ptr(int64(7)),
		StartDate: types.NewDate(2025, 7, 10),
		EndDate:   types.NewDate(2025, 7, 12),
		Reason:    "repair",
	})
	require.NoError(t, err)
	assert.True(t, saved.IsActive)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, int64(7), queue.jobs[0].RoomID)
	assert.Equal(t, types.MustDateRange(types.NewDate(2025, 7, 10), types.NewDate(2025, 7, 13)), queue.jobs[0].Range)
}

func TestService_Create_CompanyWideRecurring(t *testing.T) {
	svc, queue := newTestService()

	_, err := svc.Create(context.Background(), &models.CreateBlockRequest{
		CompanyID:         1,
		StartDate:         types.NewDate(2025, 4, 7),
		EndDate:           types.NewDate(2025, 8, 31),
		Reason:            "weekly cleaning",
		IsRecurring:       true,
		RecurrencePattern: ptr.Ptr("weekly"),
	})
	require.NoError(t, err)

	require.Len(t, queue.jobs, 2)
	for _, job := range queue.jobs {
		assert.Equal(t, horizon.Start, job.Range.Start, "past dates are not recomputed")
		assert.Equal(t, types.NewDate(2025, 9, 1), job.Range.End)
	}
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateBlockRequest
		wantErr error
	}{
		{
			name:    "end before start",
			req:     models.CreateBlockRequest{CompanyID: 1, StartDate: types.NewDate(2025, 7, 10), EndDate: types.NewDate(2025, 7, 9)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "recurring without pattern",
			req:     models.CreateBlockRequest{CompanyID: 1, StartDate: types.NewDate(2025, 7, 10), EndDate: types.NewDate(2025, 8, 9), IsRecurring: true},
			wantErr: domain.ErrValidation,
		},
		{
			name: "unknown pattern",
			req: models.CreateBlockRequest{
				CompanyID: 1, StartDate: types.NewDate(2025, 7, 10), EndDate: types.NewDate(2025, 8, 9),
				IsRecurring: true, RecurrencePattern: ptr.Ptr("daily"),
			},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "room of another company",
			req:     models.CreateBlockRequest{CompanyID: 1, RoomID: ptr.Ptr(int64(9)), StartDate: types.NewDate(2025, 7, 10), EndDate: types.NewDate(2025, 7, 10)},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, queue := newTestService()

			_, err := svc.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, queue.jobs)
		})
	}
}

func TestService_ListAndDeactivate(t *testing.T) {
	svc, queue := newTestService()
	ctx := context.Background()

	saved, err := svc.Create(ctx, &models.CreateBlockRequest{
		CompanyID: 1, RoomID: ptr.Ptr(int64(8)), StartDate: types.NewDate(2025, 7, 1), EndDate: types.NewDate(2025, 7, 1),
	})
	require.NoError(t, err)
	queue.jobs = nil

	assert.ErrorIs(t, svc.Deactivate(ctx, 2, saved.ID), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Deactivate(ctx, 1, 999), domain.ErrNotFound)

	require.NoError(t, svc.Deactivate(ctx, 1, saved.ID))
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, int64(8), queue.jobs[0].RoomID)

	active, err := svc.List(ctx, &models.ListBlocksRequest{CompanyID: 1})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(ctx, &models.ListBlocksRequest{CompanyID: 1, IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
}
