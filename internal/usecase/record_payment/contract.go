package record_payment

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/payments/models"
)

// PaymentLedger интерфейс журнала платежей
type PaymentLedger interface {
	AddPayment(ctx context.Context, req *models.AddPaymentRequest) (*domain.ReservationPayment, error)
	Settle(ctx context.Context, companyID, reservationID, paymentID int64, status domain.PaymentStatus) (*domain.ReservationPayment, error)
	Balance(ctx context.Context, companyID, reservationID int64) (*domain.Balance, error)
}

// ReservationService интерфейс машины состояний бронирования
type ReservationService interface {
	GetByID(ctx context.Context, companyID, id int64) (*domain.Reservation, error)
	Transition(txCtx context.Context, companyID, id int64, next domain.ReservationStatus) (*domain.Reservation, error)
	PublishConfirmed(ctx context.Context, res *domain.Reservation)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
