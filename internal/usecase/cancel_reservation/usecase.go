package cancel_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/events"
	"github.com/m04kA/SMC-RoomReservationService/pkg/txmanager"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	calendar        Calendar
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
	lockTimeout     time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	calendar Calendar,
	txManager TransactionManager,
	publisher EventPublisher,
	lockTimeout time.Duration,
	logger Logger,
) *UseCase {
	if lockTimeout <= 0 {
		lockTimeout = domain.DefaultLockTimeoutSecs * time.Second
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		calendar:        calendar,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		lockTimeout:     lockTimeout,
	}
}

// Execute отменяет бронирование, освобождает его ночи и пересчитывает их по текущим правилам
// Порядок блокировок как при создании: сначала номер, затем строка бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Reservation, error) {
	uc.logger.Info("CancelReservation: company=%d, reservation=%d", req.CompanyID, req.ReservationID)

	// 1. Валидация
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonSize {
		return nil, domain.NewValidationError("cancellation_reason", "must be at most %d characters", domain.MaxCancellationReasonSize)
	}

	// 2. Узнаём номер бронирования без блокировки
	current, err := uc.get(ctx, req.CompanyID, req.ReservationID)
	if err != nil {
		return nil, err
	}
	room := domain.Room{ID: current.RoomID, CompanyID: current.CompanyID}

	txCtx, cancel := context.WithTimeout(ctx, uc.lockTimeout)
	defer cancel()

	var cancelled *domain.Reservation
	err = uc.txManager.DoSerializable(txCtx, func(txCtx context.Context) error {
		// 3.1. Блокировка номера
		if err := uc.calendar.LockRoom(txCtx, room.ID); err != nil {
			return err
		}

		// 3.2. Повторное чтение под блокировкой (FOR UPDATE)
		res, err := uc.get(txCtx, req.CompanyID, req.ReservationID)
		if err != nil {
			return err
		}
		if !res.CanBeCancelled() {
			return &domain.TransitionError{ReservationID: res.ID, From: res.Status, To: domain.StatusCancelled}
		}

		// 3.3. Отмена
		now := uc.timeProvider.Now()
		if err := uc.reservationRepo.Cancel(txCtx, res.ID, req.Reason, now); err != nil {
			return fmt.Errorf("%w: failed to cancel reservation: %w", ErrInternal, err)
		}
		res.Status = domain.StatusCancelled
		res.CancellationReason = req.Reason
		res.CancelledAt = &now

		// 3.4. Освобождаем ночи и пересчитываем их
		released, err := uc.calendar.Release(txCtx, room.ID, res.ID)
		if err != nil {
			return err
		}
		if _, err := uc.calendar.RecomputeLocked(txCtx, room, res.Range()); err != nil {
			return err
		}

		uc.logger.Info("CancelReservation: reservation id=%d released %d night(s)", res.ID, len(released))
		cancelled = res
		return nil
	})
	if err != nil {
		return nil, uc.mapError(txCtx, room.ID, err)
	}

	// 4. После commit
	uc.calendar.InvalidateCache(ctx, room.ID)
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, events.NewReservationEvent(events.ReservationCancelled, cancelled, uc.timeProvider.Now())); err != nil {
			uc.logger.Warn("CancelReservation: failed to publish event for reservation id=%d: %v", cancelled.ID, err)
		}
	}

	uc.logger.Info("CancelReservation: reservation id=%d cancelled", cancelled.ID)
	return cancelled, nil
}

func (uc *UseCase) get(ctx context.Context, companyID, id int64) (*domain.Reservation, error) {
	res, err := uc.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return nil, domain.NewNotFoundError("reservation", id)
		}
		uc.logger.Error("CancelReservation: failed to get reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
	}
	if res.CompanyID != companyID {
		return nil, domain.NewNotFoundError("reservation", id)
	}
	return res, nil
}

func (uc *UseCase) mapError(txCtx context.Context, roomID int64, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
		uc.logger.Warn("CancelReservation: rejected: %v", err)
		return err
	case txmanager.IsRetryable(err), errors.Is(txCtx.Err(), context.DeadlineExceeded):
		uc.logger.Warn("CancelReservation: room id=%d concurrent transaction: %v", roomID, err)
		return &domain.ConflictError{RoomID: roomID, Cause: err}
	default:
		uc.logger.Error("CancelReservation: room id=%d transaction failed: %v", roomID, err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
