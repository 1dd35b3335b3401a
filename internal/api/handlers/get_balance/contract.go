package get_balance

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

type PaymentService interface {
	Balance(ctx context.Context, companyID, reservationID int64) (*domain.Balance, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
