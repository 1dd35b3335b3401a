package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/block"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// BlockRepo периоды блокировок в памяти
type BlockRepo struct {
	s *Store
}

// Blocks репозиторий блокировок
func (s *Store) Blocks() *BlockRepo {
	return &BlockRepo{s: s}
}

// AddBlock сохраняет период как есть, ID присваивается при нуле
func (s *Store) AddBlock(b domain.RoomBlockPeriod) *domain.RoomBlockPeriod {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.id()
	}
	stored := b
	s.blocks[b.ID] = &stored
	return &b
}

func (r *BlockRepo) Create(ctx context.Context, b *domain.RoomBlockPeriod) (*domain.RoomBlockPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Blocks.Create"); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", block.ErrExecQuery, err)
	}

	b.ID = r.s.id()
	b.StartDate = types.Date(b.StartDate)
	b.EndDate = types.Date(b.EndDate)
	b.CreatedAt = r.s.now()
	stored := *b
	r.s.blocks[b.ID] = &stored
	id := b.ID
	r.s.record(ctx, func() { delete(r.s.blocks, id) })
	return b, nil
}

func (r *BlockRepo) GetByID(ctx context.Context, id int64) (*domain.RoomBlockPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.blocks[id]
	if !ok {
		return nil, block.ErrBlockNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *BlockRepo) ListActiveForRoom(ctx context.Context, companyID, roomID int64, dates types.DateRange) ([]*domain.RoomBlockPeriod, error) {
	return r.filter(ctx, "Blocks.ListActiveForRoom", func(b *domain.RoomBlockPeriod) bool {
		if b.CompanyID != companyID || !b.IsActive {
			return false
		}
		if b.RoomID != nil && *b.RoomID != roomID {
			return false
		}
		return b.StartDate.Before(dates.End) && !b.EndDate.Before(dates.Start)
	})
}

func (r *BlockRepo) ListByCompany(ctx context.Context, companyID int64, roomID *int64, includeInactive bool) ([]*domain.RoomBlockPeriod, error) {
	return r.filter(ctx, "Blocks.ListByCompany", func(b *domain.RoomBlockPeriod) bool {
		if b.CompanyID != companyID || (!includeInactive && !b.IsActive) {
			return false
		}
		return roomID == nil || (b.RoomID != nil && *b.RoomID == *roomID)
	})
}

func (r *BlockRepo) Deactivate(ctx context.Context, companyID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.blocks[id]
	if !ok || b.CompanyID != companyID {
		return block.ErrBlockNotFound
	}
	prev := *b
	b.IsActive = false
	r.s.record(ctx, func() { r.s.blocks[id] = &prev })
	return nil
}

func (r *BlockRepo) filter(ctx context.Context, op string, keep func(*domain.RoomBlockPeriod) bool) ([]*domain.RoomBlockPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(op); err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", block.ErrExecQuery, op, err)
	}

	result := make([]*domain.RoomBlockPeriod, 0)
	for _, b := range r.s.blocks {
		if keep(b) {
			cp := *b
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
