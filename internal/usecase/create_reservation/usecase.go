package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/customerservice"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/events"
	"github.com/m04kA/SMC-RoomReservationService/pkg/txmanager"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	calendar        Calendar
	customerClient  CustomerServiceClient
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
	cfg             Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	calendar Calendar,
	customerClient CustomerServiceClient,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.MaxNights <= 0 {
		cfg.MaxNights = domain.DefaultMaxNights
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = domain.DefaultLockTimeoutSecs * time.Second
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		calendar:        calendar,
		customerClient:  customerClient,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		cfg:             cfg,
	}
}

// Execute выполняет use case создания бронирования
// Даты номера проверяются и захватываются в одной сериализуемой транзакции под блокировкой номера
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Reservation, error) {
	uc.logger.Info("CreateReservation: company=%d, customer=%d, room=%d, %s..%s, guests=%d",
		req.CompanyID, req.CustomerID, req.RoomID,
		req.CheckInDate.Format(domain.DateFormat), req.CheckOutDate.Format(domain.DateFormat), req.NumberOfGuests)

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	dates, err := validateRequest(req, now, uc.cfg.MaxNights, uc.calendar.HorizonDays())
	if err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		uc.metrics.IncReservationRejected("validation")
		return nil, err
	}

	// 2. Номер должен принадлежать компании
	room, err := uc.calendar.GetRoom(ctx, req.RoomID)
	if err != nil {
		uc.logger.Warn("CreateReservation: failed to get room id=%d: %v", req.RoomID, err)
		return nil, err
	}
	if room.CompanyID != req.CompanyID {
		uc.logger.Warn("CreateReservation: room id=%d belongs to company id=%d, not %d", room.ID, room.CompanyID, req.CompanyID)
		return nil, domain.NewNotFoundError("room", req.RoomID)
	}
	if err := validateGuests(room, req.NumberOfGuests); err != nil {
		uc.metrics.IncReservationRejected("validation")
		return nil, err
	}

	// 3. Клиент должен принадлежать компании
	if err := uc.checkCustomer(ctx, req); err != nil {
		return nil, err
	}

	// 4. Проверка и захват дат
	txCtx, cancel := context.WithTimeout(ctx, uc.cfg.LockTimeout)
	defer cancel()

	var created *domain.Reservation
	err = uc.txManager.DoSerializable(txCtx, func(txCtx context.Context) error {
		// 4.1. Блокировка номера до конца транзакции
		if err := uc.calendar.LockRoom(txCtx, room.ID); err != nil {
			return err
		}

		// 4.2. Пересекающиеся живые бронирования
		overlapping, err := uc.reservationRepo.ListOverlapping(txCtx, room.ID, dates, domain.LiveStatuses)
		if err != nil {
			return fmt.Errorf("%w: failed to list overlapping reservations: %w", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			return overlapError(room.ID, dates, overlapping[0])
		}

		// 4.3. Ячейки каждой ночи (FOR UPDATE)
		cells, err := uc.calendar.Query(txCtx, *room, dates)
		if err != nil {
			return err
		}
		if err := checkCells(room, cells, dates.Nights()); err != nil {
			return err
		}

		// 4.4. Цена
		total := decimal.Zero
		for _, c := range cells {
			total = total.Add(c.NightlyPrice(room.BasePrice))
		}

		// 4.5. Создаём бронирование и захватываем ночи
		created, err = uc.reservationRepo.Create(txCtx, &domain.Reservation{
			CompanyID:      req.CompanyID,
			CustomerID:     req.CustomerID,
			RoomID:         room.ID,
			CheckInDate:    dates.Start,
			CheckOutDate:   dates.End,
			NumberOfGuests: req.NumberOfGuests,
			Status:         domain.StatusPending,
			RoomRate:       cells[0].NightlyPrice(room.BasePrice),
			TotalAmount:    total,
			NumberOfNights: dates.Nights(),
			Notes:          req.Notes,
			CreatedBy:      req.CreatedBy,
		})
		if err != nil {
			return err
		}

		return uc.calendar.Claim(txCtx, *room, cells, created.ID)
	})
	if err != nil {
		return nil, uc.mapError(txCtx, room.ID, err)
	}

	// 5. После commit: кэш, событие, метрики
	uc.calendar.InvalidateCache(ctx, room.ID)
	uc.publish(ctx, created)
	uc.metrics.IncReservationCreated(strconv.FormatInt(created.CompanyID, 10))

	uc.logger.Info("CreateReservation: reservation id=%d created: room=%d, nights=%d, total=%s",
		created.ID, created.RoomID, created.NumberOfNights, created.TotalAmount)
	return created, nil
}

func (uc *UseCase) checkCustomer(ctx context.Context, req *Request) error {
	customer, err := uc.customerClient.GetCustomerWithGracefulDegradation(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, customerservice.ErrCustomerNotFound) {
			uc.logger.Warn("CreateReservation: customer id=%d not found", req.CustomerID)
			return domain.NewNotFoundError("customer", req.CustomerID)
		}
		if errors.Is(err, customerservice.ErrServiceDegraded) {
			uc.logger.Warn("CreateReservation: customer service degraded, skipping ownership check for customer id=%d", req.CustomerID)
			return nil
		}
		uc.logger.Error("CreateReservation: failed to get customer id=%d: %v", req.CustomerID, err)
		return fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}
	if customer.CompanyID != req.CompanyID {
		uc.logger.Warn("CreateReservation: customer id=%d belongs to company id=%d, not %d", customer.ID, customer.CompanyID, req.CompanyID)
		return domain.NewNotFoundError("customer", req.CustomerID)
	}
	return nil
}

// mapError приводит ошибку транзакции к таксономии бронирования
// Гонки на уровне БД и истёкший lock_timeout становятся ConflictError, их можно повторить
func (uc *UseCase) mapError(txCtx context.Context, roomID int64, err error) error {
	switch {
	case errors.Is(err, domain.ErrRoomUnavailable):
		uc.logger.Warn("CreateReservation: room id=%d unavailable: %v", roomID, err)
		if errors.Is(err, domain.ErrValidation) {
			uc.metrics.IncReservationRejected("min_stay")
		} else {
			uc.metrics.IncReservationRejected("unavailable")
		}
		return err

	case errors.Is(err, domain.ErrConflict):
		uc.logger.Warn("CreateReservation: room id=%d conflict: %v", roomID, err)
		uc.metrics.IncBookingConflict("create")
		return err

	case txmanager.IsRetryable(err):
		uc.logger.Warn("CreateReservation: room id=%d concurrent transaction: %v", roomID, err)
		uc.metrics.IncBookingConflict("create")
		return &domain.ConflictError{RoomID: roomID, Cause: err}

	case errors.Is(txCtx.Err(), context.DeadlineExceeded):
		uc.logger.Warn("CreateReservation: room id=%d lock timeout: %v", roomID, err)
		uc.metrics.IncBookingConflict("create")
		return &domain.ConflictError{RoomID: roomID, Cause: fmt.Errorf("%w: %v", ErrLockTimeout, err)}

	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		return err

	default:
		uc.logger.Error("CreateReservation: room id=%d transaction failed: %v", roomID, err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}

func (uc *UseCase) publish(ctx context.Context, res *domain.Reservation) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, events.NewReservationEvent(events.ReservationCreated, res, uc.timeProvider.Now())); err != nil {
		uc.logger.Warn("CreateReservation: failed to publish event for reservation id=%d: %v", res.ID, err)
	}
}

// overlapError дата первой ночи запроса, занятой пересекающимся бронированием
func overlapError(roomID int64, dates types.DateRange, other *domain.Reservation) error {
	date := dates.Start
	if other.Range().Start.After(date) {
		date = other.Range().Start
	}
	id := other.ID
	return &domain.RoomUnavailableError{
		RoomID:        roomID,
		Date:          date,
		Reason:        domain.UnavailableReserved,
		ReservationID: &id,
	}
}
