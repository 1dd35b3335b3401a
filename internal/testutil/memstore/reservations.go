package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// ReservationRepo бронирования в памяти
type ReservationRepo struct {
	s *Store
}

// Reservations репозиторий бронирований
func (s *Store) Reservations() *ReservationRepo {
	return &ReservationRepo{s: s}
}

func (r *ReservationRepo) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Reservations.Create"); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", reservation.ErrExecQuery, err)
	}

	res.ID = r.s.id()
	res.CheckInDate = types.Date(res.CheckInDate)
	res.CheckOutDate = types.Date(res.CheckOutDate)
	res.CreatedAt = r.s.now()
	res.UpdatedAt = res.CreatedAt

	stored := *res
	r.s.reservations[res.ID] = &stored
	id := res.ID
	r.s.record(ctx, func() { delete(r.s.reservations, id) })
	return res, nil
}

func (r *ReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res, ok := r.s.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *ReservationRepo) ListOverlapping(ctx context.Context, roomID int64, dates types.DateRange, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	return r.List(ctx, domain.ReservationFilter{RoomID: roomID, Range: &dates, Statuses: statuses})
}

func (r *ReservationRepo) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Reservations.List"); err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", reservation.ErrExecQuery, err)
	}

	result := make([]*domain.Reservation, 0)
	for _, res := range r.s.reservations {
		if filter.CompanyID != 0 && res.CompanyID != filter.CompanyID {
			continue
		}
		if filter.RoomID != 0 && res.RoomID != filter.RoomID {
			continue
		}
		if filter.Range != nil && !res.Range().Overlaps(*filter.Range) {
			continue
		}
		if !hasStatus(filter.Statuses, res.Status) {
			continue
		}
		cp := *res
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CheckInDate.Equal(result[j].CheckInDate) {
			return result[i].CheckInDate.Before(result[j].CheckInDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *ReservationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	return r.update(ctx, "Reservations.UpdateStatus", id, func(res *domain.Reservation) {
		res.Status = status
	})
}

func (r *ReservationRepo) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error {
	return r.update(ctx, "Reservations.Cancel", id, func(res *domain.Reservation) {
		res.Status = domain.StatusCancelled
		res.CancellationReason = reason
		at := cancelledAt
		res.CancelledAt = &at
	})
}

func (r *ReservationRepo) update(ctx context.Context, op string, id int64, apply func(*domain.Reservation)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(op); err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", reservation.ErrExecQuery, op, err)
	}

	res, ok := r.s.reservations[id]
	if !ok {
		return reservation.ErrReservationNotFound
	}
	prev := *res
	apply(res)
	res.UpdatedAt = r.s.now()
	r.s.record(ctx, func() { r.s.reservations[id] = &prev })
	return nil
}
