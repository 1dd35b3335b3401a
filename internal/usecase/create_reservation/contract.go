package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/events"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	ListOverlapping(ctx context.Context, roomID int64, dates types.DateRange, statuses []domain.ReservationStatus) ([]*domain.Reservation, error)
}

// Calendar интерфейс календаря доступности
type Calendar interface {
	HorizonDays() int
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
	LockRoom(ctx context.Context, roomID int64) error
	Query(ctx context.Context, room domain.Room, dates types.DateRange) ([]*domain.AvailabilityCell, error)
	Claim(ctx context.Context, room domain.Room, cells []*domain.AvailabilityCell, reservationID int64) error
	InvalidateCache(ctx context.Context, roomID int64)
}

// CustomerServiceClient интерфейс клиента сервиса клиентов
type CustomerServiceClient interface {
	GetCustomerWithGracefulDegradation(ctx context.Context, customerID int64) (*domain.Customer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event events.ReservationEvent) error
}

// Metrics метрики бронирования
type Metrics interface {
	IncReservationCreated(companyLabel string)
	IncReservationRejected(reason string)
	IncBookingConflict(operation string)
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

type noopMetrics struct{}

func (noopMetrics) IncReservationCreated(string)  {}
func (noopMetrics) IncReservationRejected(string) {}
func (noopMetrics) IncBookingConflict(string)     {}
