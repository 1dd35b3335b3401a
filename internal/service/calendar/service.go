package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/engine/blockexpander"
	"github.com/m04kA/SMC-RoomReservationService/internal/engine/ruleengine"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Service материализованный календарь доступности номеров
// Все изменения ячеек номера выполняются под транзакционной блокировкой номера
type Service struct {
	cellRepo     CellRepository
	ruleRepo     RuleRepository
	blockRepo    BlockRepository
	rooms        RoomReader
	cache        Cache
	txManager    TransactionManager
	expander     *blockexpander.Expander
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	horizonDays  int
}

// NewService создает новый экземпляр сервиса календаря
// cache может быть nil, тогда чтение доступности всегда идёт в БД
func NewService(
	cellRepo CellRepository,
	ruleRepo RuleRepository,
	blockRepo BlockRepository,
	rooms RoomReader,
	cache Cache,
	txManager TransactionManager,
	metrics Metrics,
	horizonDays int,
	logger Logger,
) *Service {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		cellRepo:     cellRepo,
		ruleRepo:     ruleRepo,
		blockRepo:    blockRepo,
		rooms:        rooms,
		cache:        cache,
		txManager:    txManager,
		expander:     blockexpander.New(horizonDays),
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		horizonDays:  horizonDays,
	}
}

// HorizonDays горизонт календаря в днях
func (s *Service) HorizonDays() int {
	return s.horizonDays
}

// Horizon диапазон [сегодня, сегодня + горизонт)
func (s *Service) Horizon() types.DateRange {
	today := types.Date(s.timeProvider.Now())
	return types.DateRange{Start: today, End: today.AddDate(0, 0, s.horizonDays)}
}

// GetRoom получает номер из каталога, неизвестный номер - NotFoundError
func (s *Service) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrRoomNotFound) {
			return nil, domain.NewNotFoundError("room", roomID)
		}
		return nil, fmt.Errorf("%w: GetRoom - catalog error: %v", ErrInternal, err)
	}
	return room, nil
}

// LockRoom берёт блокировку номера в транзакции из контекста
func (s *Service) LockRoom(ctx context.Context, roomID int64) error {
	if err := s.cellRepo.LockRoom(ctx, roomID); err != nil {
		return fmt.Errorf("%w: LockRoom - room=%d: %w", ErrInternal, roomID, err)
	}
	return nil
}

// Recompute пересчитывает ячейки номера в диапазоне по текущим правилам и блокировкам
// Занятые ячейки не перезаписываются, пересечения возвращаются в Conflicts
// Повторный вызов без изменения правил ничего не меняет
func (s *Service) Recompute(ctx context.Context, roomID int64, dates types.DateRange) (*RecomputeResult, error) {
	s.logger.Info("Recompute: room=%d range=%s", roomID, dates)

	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		s.logger.Warn("Recompute: failed to get room id=%d: %v", roomID, err)
		return nil, err
	}

	var result *RecomputeResult
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.LockRoom(txCtx, roomID); err != nil {
			return err
		}

		res, err := s.RecomputeLocked(txCtx, *room, dates)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		s.metrics.IncRecompute(resultError, 0)
		s.logger.Error("Recompute: room=%d range=%s failed: %v", roomID, dates, err)
		return nil, err
	}

	s.InvalidateCache(ctx, roomID)

	if len(result.Conflicts) > 0 {
		s.metrics.IncRecompute(resultConflict, len(result.Conflicts))
		s.logger.Warn("Recompute: room=%d has %d reservation conflict(s) for operator review", roomID, len(result.Conflicts))
	} else {
		s.metrics.IncRecompute(resultOK, 0)
	}

	s.logger.Info("Recompute: room=%d updated=%d conflicts=%d", roomID, result.Updated, len(result.Conflicts))
	return result, nil
}

// RecomputeLocked тело Recompute для вызывающего, который уже держит блокировку номера
// Для пересчёта достаточно ID и CompanyID номера
func (s *Service) RecomputeLocked(txCtx context.Context, room domain.Room, dates types.DateRange) (*RecomputeResult, error) {
	result := &RecomputeResult{RoomID: room.ID, Range: dates, Conflicts: []Conflict{}}
	if dates.IsEmpty() {
		return result, nil
	}

	// 1. Текущее состояние ячеек (FOR UPDATE)
	existing, err := s.cellRepo.ListRange(txCtx, room.ID, dates)
	if err != nil {
		return nil, fmt.Errorf("%w: RecomputeLocked - list cells: %w", ErrInternal, err)
	}
	byDate := make(map[time.Time]*domain.AvailabilityCell, len(existing))
	for _, c := range existing {
		byDate[c.Date] = c
	}

	// 2. Правила и блокировки
	in, err := s.loadInputs(txCtx, room, dates)
	if err != nil {
		return nil, err
	}

	// 3. Вычисляем каждую дату
	toUpsert := make([]*domain.AvailabilityCell, 0)
	for _, date := range dates.Days() {
		computed := in.build(room, date)
		current := byDate[date]

		if current != nil && current.IsClaimed() {
			reason := conflictReason(computed, in)
			if reason != nil {
				result.Conflicts = append(result.Conflicts, Conflict{Date: date, ReservationID: *current.ReservationID, Reason: *reason})
			}
			if !sameString(current.ConflictReason, reason) {
				if err := s.cellRepo.SetConflictReason(txCtx, room.ID, date, reason); err != nil {
					return nil, fmt.Errorf("%w: RecomputeLocked - set conflict reason: %w", ErrInternal, err)
				}
			}
			continue
		}

		if current == nil || !sameState(current, computed) {
			toUpsert = append(toUpsert, computed)
		}
	}

	// 4. Записываем изменившиеся незанятые ячейки
	updated, err := s.cellRepo.UpsertUnclaimed(txCtx, toUpsert)
	if err != nil {
		return nil, fmt.Errorf("%w: RecomputeLocked - upsert cells: %w", ErrInternal, err)
	}
	result.Updated = int(updated)

	return result, nil
}

// Query ячейки номера на каждую дату диапазона по возрастанию
// Ещё не материализованные даты вычисляются на лету из правил и блокировок
// Внутри транзакции существующие ячейки блокируются
func (s *Service) Query(ctx context.Context, room domain.Room, dates types.DateRange) ([]*domain.AvailabilityCell, error) {
	stored, err := s.cellRepo.ListRange(ctx, room.ID, dates)
	if err != nil {
		return nil, fmt.Errorf("%w: Query - list cells: %w", ErrInternal, err)
	}

	days := dates.Days()
	if len(stored) == len(days) {
		return stored, nil
	}

	byDate := make(map[time.Time]*domain.AvailabilityCell, len(stored))
	for _, c := range stored {
		byDate[c.Date] = c
	}

	in, err := s.loadInputs(ctx, room, dates)
	if err != nil {
		return nil, err
	}

	cells := make([]*domain.AvailabilityCell, 0, len(days))
	for _, date := range days {
		if c, ok := byDate[date]; ok {
			cells = append(cells, c)
			continue
		}
		cells = append(cells, in.build(room, date))
	}

	return cells, nil
}

// Claim закрепляет ячейки за бронированием
// Если хотя бы одна ячейка уже занята, возвращает ConflictError
func (s *Service) Claim(ctx context.Context, room domain.Room, cells []*domain.AvailabilityCell, reservationID int64) error {
	claimed, err := s.cellRepo.Claim(ctx, cells, reservationID)
	if err != nil {
		return fmt.Errorf("%w: Claim - room=%d reservation=%d: %w", ErrInternal, room.ID, reservationID, err)
	}

	if int(claimed) < len(cells) {
		s.logger.Warn("Claim: room=%d reservation=%d claimed %d of %d nights", room.ID, reservationID, claimed, len(cells))
		return &domain.ConflictError{RoomID: room.ID, ReservationID: &reservationID}
	}

	return nil
}

// Release освобождает ячейки бронирования и возвращает освобождённые даты
func (s *Service) Release(ctx context.Context, roomID, reservationID int64) ([]time.Time, error) {
	dates, err := s.cellRepo.Release(ctx, roomID, reservationID)
	if err != nil {
		return nil, fmt.Errorf("%w: Release - room=%d reservation=%d: %w", ErrInternal, roomID, reservationID, err)
	}
	return dates, nil
}

// GetAvailability публичное чтение доступности номера с кэшированием
func (s *Service) GetAvailability(ctx context.Context, roomID int64, dates types.DateRange) ([]Day, error) {
	if dates.Nights() > s.horizonDays {
		return nil, fmt.Errorf("%w: %w", domain.NewValidationError("to", "range must not exceed %d days", s.horizonDays), ErrRangeTooLong)
	}
	// за горизонтом повторяющиеся блокировки не развернуты
	if horizon := s.Horizon(); dates.End.After(horizon.End) {
		return nil, fmt.Errorf("%w: %w", domain.NewValidationError("to", "must not be after %s", horizon.End.Format(domain.DateFormat)), ErrRangeTooLong)
	}

	// Ответ кэшируется только под версией, прочитанной до обращения к БД
	var (
		version   CacheVersion
		cacheable bool
	)
	if s.cache != nil {
		days, v, hit, err := s.cache.Get(ctx, roomID, dates)
		if err != nil {
			s.logger.Warn("GetAvailability: cache read failed for room=%d: %v", roomID, err)
		}
		s.metrics.IncCacheLookup(hit)
		if hit {
			return days, nil
		}
		version, cacheable = v, err == nil
	}

	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	cells, err := s.Query(ctx, *room, dates)
	if err != nil {
		s.logger.Error("GetAvailability: query failed for room=%d: %v", roomID, err)
		return nil, err
	}

	days := make([]Day, 0, len(cells))
	for _, c := range cells {
		days = append(days, Day{
			Date:      c.Date,
			Available: c.IsAvailable,
			Price:     c.NightlyPrice(room.BasePrice),
			MinNights: c.MinNights,
			Reason:    c.UnavailableReason(),
		})
	}

	if cacheable {
		if err := s.cache.Set(ctx, roomID, version, dates, days); err != nil {
			s.logger.Warn("GetAvailability: cache write failed for room=%d: %v", roomID, err)
		}
	}

	return days, nil
}

// Evaluate быстрое вычисление правил для даты без обращения к ячейкам
func (s *Service) Evaluate(ctx context.Context, roomID int64, date time.Time) (*ruleengine.Evaluation, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.ListActiveForRoom(ctx, room.CompanyID, room.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: Evaluate - list rules: %v", ErrInternal, err)
	}

	rs := ruleengine.Compile(rules)
	s.logIssues("Evaluate", rs)

	eval := rs.Evaluate(*room, date)
	return &eval, nil
}

// ListConflicts занятые даты номера, требующие ручной проверки
func (s *Service) ListConflicts(ctx context.Context, roomID int64) ([]*domain.AvailabilityCell, error) {
	cells, err := s.cellRepo.ListConflicts(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%w: ListConflicts - room=%d: %v", ErrInternal, roomID, err)
	}
	return cells, nil
}

// InvalidateCache сбрасывает кэш доступности номера, ошибка только логируется
func (s *Service) InvalidateCache(ctx context.Context, roomID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, roomID); err != nil {
		s.logger.Warn("InvalidateCache: room=%d: %v", roomID, err)
	}
}

// inputs правила и блокировки номера для диапазона
type inputs struct {
	rules  *ruleengine.RuleSet
	blocks map[time.Time]blockexpander.Occurrence
}

func (s *Service) loadInputs(ctx context.Context, room domain.Room, dates types.DateRange) (*inputs, error) {
	rules, err := s.ruleRepo.ListActiveForRoom(ctx, room.CompanyID, room.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: loadInputs - list rules: %w", ErrInternal, err)
	}

	periods, err := s.blockRepo.ListActiveForRoom(ctx, room.CompanyID, room.ID, dates)
	if err != nil {
		return nil, fmt.Errorf("%w: loadInputs - list blocks: %w", ErrInternal, err)
	}

	rs := ruleengine.Compile(rules)
	s.logIssues("loadInputs", rs)

	return &inputs{
		rules:  rs,
		blocks: s.expander.ForRoom(periods, room, dates, s.timeProvider.Now()),
	}, nil
}

func (s *Service) logIssues(op string, rs *ruleengine.RuleSet) {
	for _, issue := range rs.Issues() {
		s.logger.Warn("%s: skipping rule: %v", op, issue)
	}
}

// build вычисляет ячейку даты
func (in *inputs) build(room domain.Room, date time.Time) *domain.AvailabilityCell {
	eval := in.rules.Evaluate(room, date)

	cell := &domain.AvailabilityCell{
		RoomID:      room.ID,
		CompanyID:   room.CompanyID,
		Date:        date,
		IsAvailable: eval.IsAvailable,
		CustomPrice: eval.CustomPrice,
		MinNights:   eval.MinNights,
	}

	if occ, ok := in.blocks[date]; ok {
		reason := occ.Reason
		cell.IsBlocked = true
		cell.BlockReason = &reason
	}

	cell.Normalize()
	return cell
}

// conflictReason причина, по которой новое состояние закрыло бы занятую дату, или nil
func conflictReason(computed *domain.AvailabilityCell, in *inputs) *string {
	var reason string
	switch {
	case computed.IsBlocked:
		occ := in.blocks[computed.Date]
		reason = fmt.Sprintf("%s by period %d", domain.UnavailableBlocked, occ.PeriodID)
	case !computed.IsAvailable:
		reason = domain.UnavailableRule
	default:
		return nil
	}
	return &reason
}

// sameState сравнивает вычисляемые поля ячеек
func sameState(a, b *domain.AvailabilityCell) bool {
	if a.IsAvailable != b.IsAvailable || a.IsBlocked != b.IsBlocked {
		return false
	}
	if !sameString(a.BlockReason, b.BlockReason) || a.ConflictReason != nil {
		return false
	}
	if (a.MinNights == nil) != (b.MinNights == nil) || (a.MinNights != nil && *a.MinNights != *b.MinNights) {
		return false
	}
	if (a.CustomPrice == nil) != (b.CustomPrice == nil) {
		return false
	}
	return a.CustomPrice == nil || a.CustomPrice.Equal(*b.CustomPrice)
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
