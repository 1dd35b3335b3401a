package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/cell"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// CellRepo ячейки календаря в памяти
type CellRepo struct {
	s *Store
}

// Cells репозиторий ячеек
func (s *Store) Cells() *CellRepo {
	return &CellRepo{s: s}
}

// LockRoom блокировка номера до конца транзакции, повторный вызов в той же транзакции не блокирует
func (r *CellRepo) LockRoom(ctx context.Context, roomID int64) error {
	t := txFrom(ctx)
	if t == nil {
		return fmt.Errorf("%w: LockRoom - room=%d: no transaction in context", cell.ErrLockRoom, roomID)
	}
	if _, held := t.locks[roomID]; held {
		return nil
	}

	r.s.mu.Lock()
	if err := r.s.fail("Cells.LockRoom"); err != nil {
		r.s.mu.Unlock()
		return fmt.Errorf("%w: LockRoom - room=%d: %w", cell.ErrLockRoom, roomID, err)
	}
	l, ok := r.s.roomLocks[roomID]
	if !ok {
		l = &sync.Mutex{}
		r.s.roomLocks[roomID] = l
	}
	r.s.mu.Unlock()

	l.Lock()
	t.locks[roomID] = l
	return nil
}

func (r *CellRepo) ListRange(ctx context.Context, roomID int64, dates types.DateRange) ([]*domain.AvailabilityCell, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Cells.ListRange"); err != nil {
		return nil, fmt.Errorf("%w: ListRange: %w", cell.ErrExecQuery, err)
	}

	result := make([]*domain.AvailabilityCell, 0)
	for _, d := range dates.Days() {
		if c, ok := r.s.cells[cellKey{roomID, d}]; ok {
			result = append(result, copyCell(c))
		}
	}
	return result, nil
}

func (r *CellRepo) ListConflicts(ctx context.Context, roomID int64) ([]*domain.AvailabilityCell, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*domain.AvailabilityCell, 0)
	for k, c := range r.s.cells {
		if k.roomID == roomID && c.ConflictReason != nil {
			result = append(result, copyCell(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (r *CellRepo) UpsertUnclaimed(ctx context.Context, cells []*domain.AvailabilityCell) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Cells.UpsertUnclaimed"); err != nil {
		return 0, fmt.Errorf("%w: UpsertUnclaimed - execute: %w", cell.ErrExecQuery, err)
	}

	var n int64
	for _, c := range cells {
		c.Normalize()
		key := cellKey{c.RoomID, types.Date(c.Date)}
		prev, exists := r.s.cells[key]
		if exists && prev.IsClaimed() {
			continue
		}

		next := copyCell(c)
		next.Date = key.date
		next.ReservationID = nil
		next.ConflictReason = nil
		next.UpdatedAt = r.s.now()
		r.s.cells[key] = next
		r.s.record(ctx, r.restore(key, prev, exists))
		n++
	}
	return n, nil
}

func (r *CellRepo) Claim(ctx context.Context, cells []*domain.AvailabilityCell, reservationID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Cells.Claim"); err != nil {
		return 0, fmt.Errorf("%w: Claim - execute: %w", cell.ErrExecQuery, err)
	}

	var n int64
	for _, c := range cells {
		key := cellKey{c.RoomID, types.Date(c.Date)}
		prev, exists := r.s.cells[key]
		if exists && prev.IsClaimed() {
			continue
		}

		next := copyCell(c)
		next.Date = key.date
		next.IsAvailable = false
		id := reservationID
		next.ReservationID = &id
		next.ConflictReason = nil
		next.UpdatedAt = r.s.now()
		r.s.cells[key] = next
		r.s.record(ctx, r.restore(key, prev, exists))
		n++
	}
	return n, nil
}

func (r *CellRepo) Release(ctx context.Context, roomID, reservationID int64) ([]time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Cells.Release"); err != nil {
		return nil, fmt.Errorf("%w: Release - execute update: %w", cell.ErrExecQuery, err)
	}

	dates := make([]time.Time, 0)
	for key, c := range r.s.cells {
		if key.roomID != roomID || c.ReservationID == nil || *c.ReservationID != reservationID {
			continue
		}
		prev := copyCell(c)
		c.ReservationID = nil
		c.ConflictReason = nil
		c.IsAvailable = !c.IsBlocked
		c.UpdatedAt = r.s.now()
		r.s.record(ctx, r.restore(key, prev, true))
		dates = append(dates, key.date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (r *CellRepo) SetConflictReason(ctx context.Context, roomID int64, date time.Time, reason *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := cellKey{roomID, types.Date(date)}
	c, ok := r.s.cells[key]
	if !ok || !c.IsClaimed() {
		return nil
	}
	prev := copyCell(c)
	if reason == nil {
		c.ConflictReason = nil
	} else {
		v := *reason
		c.ConflictReason = &v
	}
	r.s.record(ctx, r.restore(key, prev, true))
	return nil
}

func (r *CellRepo) ListRooms(ctx context.Context) ([]cell.RoomRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Cells.ListRooms"); err != nil {
		return nil, fmt.Errorf("%w: ListRooms - execute query: %w", cell.ErrExecQuery, err)
	}

	seen := make(map[int64]int64)
	for k, c := range r.s.cells {
		seen[k.roomID] = c.CompanyID
	}
	refs := make([]cell.RoomRef, 0, len(seen))
	for roomID, companyID := range seen {
		refs = append(refs, cell.RoomRef{RoomID: roomID, CompanyID: companyID})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].RoomID < refs[j].RoomID })
	return refs, nil
}

func (r *CellRepo) restore(key cellKey, prev *domain.AvailabilityCell, existed bool) func() {
	return func() {
		if !existed {
			delete(r.s.cells, key)
			return
		}
		r.s.cells[key] = prev
	}
}
