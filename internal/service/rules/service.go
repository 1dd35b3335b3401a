package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/rule"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rules/models"
	"github.com/m04kA/SMC-RoomReservationService/internal/worker/recompute"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Service администрирование правил доступности и цен
// Календарь не пересчитывается синхронно: изменения уходят в очередь пересчёта
type Service struct {
	ruleRepo RuleRepository
	rooms    RoomReader
	horizon  Horizon
	queue    RecomputeQueue
	logger   Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(ruleRepo RuleRepository, rooms RoomReader, horizon Horizon, queue RecomputeQueue, logger Logger) *Service {
	return &Service{
		ruleRepo: ruleRepo,
		rooms:    rooms,
		horizon:  horizon,
		queue:    queue,
		logger:   logger,
	}
}

// Upsert создаёт правило или изменяет существующее
// Пересчёт ставится на объединение старого и нового периодов действия в пределах горизонта
func (s *Service) Upsert(ctx context.Context, req *models.UpsertRuleRequest) (*domain.AvailabilityRule, error) {
	s.logger.Info("Upsert: company id=%d type=%s", req.CompanyID, req.Type)

	// 1. Валидация
	candidate, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	// 2. Номер должен принадлежать компании
	if candidate.RoomID != nil {
		if err := s.checkRoom(ctx, req.CompanyID, *candidate.RoomID); err != nil {
			return nil, err
		}
	}

	// 3. Создание или изменение
	var previous *domain.AvailabilityRule
	var saved *domain.AvailabilityRule
	if req.ID == nil {
		saved, err = s.ruleRepo.Create(ctx, candidate)
		if err != nil {
			s.logger.Error("Upsert: failed to create rule for company id=%d: %v", req.CompanyID, err)
			return nil, fmt.Errorf("%w: Upsert - create rule: %w", ErrInternal, err)
		}
	} else {
		previous, err = s.get(ctx, req.CompanyID, *req.ID)
		if err != nil {
			return nil, err
		}
		candidate.ID = previous.ID
		candidate.CreatedBy = previous.CreatedBy
		saved, err = s.ruleRepo.Update(ctx, candidate)
		if err != nil {
			if errors.Is(err, rule.ErrRuleNotFound) {
				return nil, domain.NewNotFoundError("rule", *req.ID)
			}
			s.logger.Error("Upsert: failed to update rule id=%d: %v", *req.ID, err)
			return nil, fmt.Errorf("%w: Upsert - update rule: %w", ErrInternal, err)
		}
	}

	// 4. Пересчёт затронутых номеров
	s.schedule(ctx, saved, previous, "rule upsert")

	s.logger.Info("Upsert: rule id=%d saved (type=%s, priority=%d)", saved.ID, saved.Type, saved.Priority)
	return saved, nil
}

// List правила компании, опционально одного номера
func (s *Service) List(ctx context.Context, req *models.ListRulesRequest) ([]*domain.AvailabilityRule, error) {
	rules, err := s.ruleRepo.ListByCompany(ctx, req.CompanyID, req.RoomID, req.IncludeInactive)
	if err != nil {
		s.logger.Error("List: repository error for company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}
	return rules, nil
}

// Deactivate выключает правило и ставит пересчёт его периода
func (s *Service) Deactivate(ctx context.Context, companyID, id int64) error {
	existing, err := s.get(ctx, companyID, id)
	if err != nil {
		return err
	}

	if err := s.ruleRepo.Deactivate(ctx, companyID, id); err != nil {
		if errors.Is(err, rule.ErrRuleNotFound) {
			return domain.NewNotFoundError("rule", id)
		}
		return fmt.Errorf("%w: Deactivate - repository error: %w", ErrInternal, err)
	}

	s.schedule(ctx, existing, nil, "rule deactivated")

	s.logger.Info("Deactivate: rule id=%d deactivated", id)
	return nil
}

func (s *Service) validate(req *models.UpsertRuleRequest) (*domain.AvailabilityRule, error) {
	if req.CompanyID <= 0 {
		return nil, domain.NewValidationError("company_id", "must be positive")
	}
	if req.RoomID != nil && *req.RoomID <= 0 {
		return nil, domain.NewValidationError("room_id", "must be positive")
	}

	ruleType := domain.RuleType(req.Type)
	if !ruleType.IsValid() {
		return nil, domain.NewValidationError("rule_type", "unknown rule type %q", req.Type)
	}

	value, err := domain.DecodeRuleValue(ruleType, req.Value)
	if err != nil {
		return nil, domain.NewValidationError("rule_value", "%v", err)
	}
	// хранится нормализованная форма значения
	raw, err := domain.EncodeRuleValue(value)
	if err != nil {
		return nil, domain.NewValidationError("rule_value", "%v", err)
	}

	if req.Priority < domain.MinRulePriority || req.Priority > domain.MaxRulePriority {
		return nil, domain.NewValidationError("priority", "must be in %d..%d", domain.MinRulePriority, domain.MaxRulePriority)
	}
	if req.ActiveFrom != nil && req.ActiveTo != nil && types.Date(*req.ActiveTo).Before(types.Date(*req.ActiveFrom)) {
		return nil, domain.NewValidationError("active_to", "must not be before active_from")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return &domain.AvailabilityRule{
		CompanyID:  req.CompanyID,
		RoomID:     req.RoomID,
		Type:       ruleType,
		Value:      raw,
		Priority:   req.Priority,
		ActiveFrom: dateOrNil(req.ActiveFrom),
		ActiveTo:   dateOrNil(req.ActiveTo),
		IsActive:   isActive,
		CreatedBy:  req.CreatedBy,
	}, nil
}

func (s *Service) get(ctx context.Context, companyID, id int64) (*domain.AvailabilityRule, error) {
	existing, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rule.ErrRuleNotFound) {
			return nil, domain.NewNotFoundError("rule", id)
		}
		return nil, fmt.Errorf("%w: get - repository error: %w", ErrInternal, err)
	}
	if existing.CompanyID != companyID {
		return nil, domain.NewNotFoundError("rule", id)
	}
	return existing, nil
}

func (s *Service) checkRoom(ctx context.Context, companyID, roomID int64) error {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrRoomNotFound) {
			return domain.NewNotFoundError("room", roomID)
		}
		return fmt.Errorf("%w: checkRoom - catalog error: %v", ErrInternal, err)
	}
	if room.CompanyID != companyID {
		return domain.NewNotFoundError("room", roomID)
	}
	return nil
}

// schedule ставит пересчёт номеров, которых касается правило (до и после изменения)
// Ошибки каталога только логируются: ежедневное продление горизонта восстановит календарь
func (s *Service) schedule(ctx context.Context, current, previous *domain.AvailabilityRule, reason string) {
	horizon := s.horizon.Horizon()

	dates, ok := activeRange(current, horizon)
	if previous != nil {
		if prevDates, prevOK := activeRange(previous, horizon); prevOK {
			if ok {
				dates = dates.Union(prevDates)
			} else {
				dates, ok = prevDates, true
			}
		}
	}
	if !ok {
		return
	}

	roomIDs := make(map[int64]struct{})
	for _, r := range []*domain.AvailabilityRule{current, previous} {
		if r == nil {
			continue
		}
		if r.RoomID != nil {
			roomIDs[*r.RoomID] = struct{}{}
			continue
		}
		rooms, err := s.rooms.ListCompanyRooms(ctx, r.CompanyID)
		if err != nil {
			s.logger.Warn("schedule: failed to list rooms of company id=%d: %v", r.CompanyID, err)
			continue
		}
		for _, room := range rooms {
			roomIDs[room.ID] = struct{}{}
		}
	}

	for roomID := range roomIDs {
		s.queue.Enqueue(recompute.Job{RoomID: roomID, Range: dates, Reason: reason})
	}
}

// activeRange период действия правила в пределах горизонта
func activeRange(r *domain.AvailabilityRule, horizon types.DateRange) (types.DateRange, bool) {
	dates := horizon
	if r.ActiveFrom != nil {
		dates.Start = types.Date(*r.ActiveFrom)
	}
	if r.ActiveTo != nil {
		dates.End = types.Date(*r.ActiveTo).AddDate(0, 0, 1)
	}
	return dates.Intersect(horizon)
}

func dateOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := types.Date(*t)
	return &d
}
