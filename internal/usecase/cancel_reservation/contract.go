package cancel_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/events"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/calendar"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error
}

// Calendar интерфейс календаря доступности
type Calendar interface {
	LockRoom(ctx context.Context, roomID int64) error
	Release(ctx context.Context, roomID, reservationID int64) ([]time.Time, error)
	RecomputeLocked(txCtx context.Context, room domain.Room, dates types.DateRange) (*calendar.RecomputeResult, error)
	InvalidateCache(ctx context.Context, roomID int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event events.ReservationEvent) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
