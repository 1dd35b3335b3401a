package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/rule"
)

// RuleRepo правила доступности в памяти
type RuleRepo struct {
	s *Store
}

// Rules репозиторий правил
func (s *Store) Rules() *RuleRepo {
	return &RuleRepo{s: s}
}

// AddRule сохраняет правило как есть, ID присваивается при нуле
func (s *Store) AddRule(rl domain.AvailabilityRule) *domain.AvailabilityRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rl.ID == 0 {
		rl.ID = s.id()
	}
	if rl.CreatedAt.IsZero() {
		rl.CreatedAt = s.now()
	}
	stored := rl
	s.rules[rl.ID] = &stored
	return &rl
}

func (r *RuleRepo) Create(ctx context.Context, rl *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Rules.Create"); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", rule.ErrExecQuery, err)
	}

	rl.ID = r.s.id()
	rl.CreatedAt = r.s.now()
	rl.UpdatedAt = rl.CreatedAt
	stored := *rl
	r.s.rules[rl.ID] = &stored
	id := rl.ID
	r.s.record(ctx, func() { delete(r.s.rules, id) })
	return rl, nil
}

func (r *RuleRepo) Update(ctx context.Context, rl *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.rules[rl.ID]
	if !ok || cur.CompanyID != rl.CompanyID {
		return nil, rule.ErrRuleNotFound
	}
	prev := *cur
	rl.CreatedAt = cur.CreatedAt
	rl.UpdatedAt = r.s.now()
	stored := *rl
	r.s.rules[rl.ID] = &stored
	r.s.record(ctx, func() { r.s.rules[prev.ID] = &prev })
	return rl, nil
}

func (r *RuleRepo) GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rl, ok := r.s.rules[id]
	if !ok {
		return nil, rule.ErrRuleNotFound
	}
	cp := *rl
	return &cp, nil
}

func (r *RuleRepo) ListActiveForRoom(ctx context.Context, companyID, roomID int64) ([]*domain.AvailabilityRule, error) {
	return r.filter(ctx, "Rules.ListActiveForRoom", func(rl *domain.AvailabilityRule) bool {
		return rl.CompanyID == companyID && rl.IsActive && (rl.RoomID == nil || *rl.RoomID == roomID)
	})
}

func (r *RuleRepo) ListByCompany(ctx context.Context, companyID int64, roomID *int64, includeInactive bool) ([]*domain.AvailabilityRule, error) {
	return r.filter(ctx, "Rules.ListByCompany", func(rl *domain.AvailabilityRule) bool {
		if rl.CompanyID != companyID || (!includeInactive && !rl.IsActive) {
			return false
		}
		return roomID == nil || (rl.RoomID != nil && *rl.RoomID == *roomID)
	})
}

func (r *RuleRepo) Deactivate(ctx context.Context, companyID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rl, ok := r.s.rules[id]
	if !ok || rl.CompanyID != companyID {
		return rule.ErrRuleNotFound
	}
	prev := *rl
	rl.IsActive = false
	r.s.record(ctx, func() { r.s.rules[id] = &prev })
	return nil
}

func (r *RuleRepo) filter(ctx context.Context, op string, keep func(*domain.AvailabilityRule) bool) ([]*domain.AvailabilityRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(op); err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", rule.ErrExecQuery, op, err)
	}

	result := make([]*domain.AvailabilityRule, 0)
	for _, rl := range r.s.rules {
		if keep(rl) {
			cp := *rl
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Priority != result[j].Priority {
			return result[i].Priority > result[j].Priority
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
