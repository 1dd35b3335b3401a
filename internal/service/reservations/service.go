package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/events"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Service сервис чтения бронирований и смены статусов
// Отмена выполняется отдельным сценарием, так как освобождает календарь
type Service struct {
	reservationRepo ReservationRepository
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование компании по ID
// Бронирование другой компании не видно: NotFoundError
func (s *Service) GetByID(ctx context.Context, companyID, id int64) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, domain.NewNotFoundError("reservation", id)
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if res.CompanyID != companyID {
		s.logger.Warn("GetByID: reservation id=%d belongs to company=%d, requested by company=%d", id, res.CompanyID, companyID)
		return nil, domain.NewNotFoundError("reservation", id)
	}

	return res, nil
}

// ListByRoom бронирования номера, опционально пересекающие период и в указанных статусах
func (s *Service) ListByRoom(ctx context.Context, req *models.ListByRoomRequest) ([]*domain.Reservation, error) {
	filter := domain.ReservationFilter{CompanyID: req.CompanyID, RoomID: req.RoomID}

	if req.From != nil && req.To != nil {
		dates, err := types.NewDateRange(*req.From, *req.To)
		if err != nil {
			return nil, domain.NewValidationError("to", "must be after from")
		}
		filter.Range = &dates
	}

	for _, raw := range req.Statuses {
		status, err := models.ToDomainStatus(raw)
		if err != nil {
			return nil, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	list, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListByRoom: repository error for room=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: ListByRoom - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByRoom: fetched %d reservation(s) for room=%d", len(list), req.RoomID)
	return list, nil
}

// UpdateStatus переводит бронирование в confirmed, checked_in или checked_out
// Переход проверяется по машине состояний, конечные статусы не меняются
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*domain.Reservation, error) {
	s.logger.Info("UpdateStatus: reservation id=%d -> %s", req.ReservationID, req.Status)

	next, err := models.ToDomainStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if next == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: %w", domain.NewValidationError("status", "use the cancel operation"), ErrUseCancel)
	}
	if next == domain.StatusPending {
		return nil, domain.NewValidationError("status", "cannot move back to pending")
	}

	var res *domain.Reservation
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		res, err = s.Transition(txCtx, req.CompanyID, req.ReservationID, next)
		return err
	})
	if err != nil {
		return nil, err
	}

	if next == domain.StatusConfirmed {
		s.publish(ctx, events.ReservationConfirmed, res)
	}

	s.logger.Info("UpdateStatus: reservation id=%d is now %s", res.ID, res.Status)
	return res, nil
}

// Transition меняет статус в транзакции вызывающего
// Строка бронирования блокируется до конца транзакции
func (s *Service) Transition(txCtx context.Context, companyID, id int64, next domain.ReservationStatus) (*domain.Reservation, error) {
	res, err := s.GetByID(txCtx, companyID, id)
	if err != nil {
		return nil, err
	}

	if err := res.TransitionTo(next); err != nil {
		s.logger.Warn("Transition: reservation id=%d: %v", id, err)
		return nil, err
	}

	if err := s.reservationRepo.UpdateStatus(txCtx, id, next); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, domain.NewNotFoundError("reservation", id)
		}
		s.logger.Error("Transition: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Transition - repository error: %w", ErrInternal, err)
	}

	res.UpdatedAt = s.timeProvider.Now()
	return res, nil
}

// PublishConfirmed публикует событие подтверждения, ошибка только логируется
func (s *Service) PublishConfirmed(ctx context.Context, res *domain.Reservation) {
	s.publish(ctx, events.ReservationConfirmed, res)
}

func (s *Service) publish(ctx context.Context, t events.EventType, res *domain.Reservation) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewReservationEvent(t, res, s.timeProvider.Now())); err != nil {
		s.logger.Warn("publish: %s for reservation id=%d failed: %v", t, res.ID, err)
	}
}
