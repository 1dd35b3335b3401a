package get_reservation

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

type ReservationService interface {
	GetByID(ctx context.Context, companyID, id int64) (*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
