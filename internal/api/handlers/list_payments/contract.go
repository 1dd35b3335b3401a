package list_payments

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

type PaymentService interface {
	List(ctx context.Context, companyID, reservationID int64) ([]*domain.ReservationPayment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
