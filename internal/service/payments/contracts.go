package payments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// PaymentRepository интерфейс журнала платежей
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.ReservationPayment) (*domain.ReservationPayment, error)
	GetByID(ctx context.Context, id int64) (*domain.ReservationPayment, error)
	ListByReservation(ctx context.Context, reservationID int64) ([]*domain.ReservationPayment, error)
	Settle(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// ReservationReader чтение бронирования компании
type ReservationReader interface {
	GetByID(ctx context.Context, companyID, id int64) (*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
