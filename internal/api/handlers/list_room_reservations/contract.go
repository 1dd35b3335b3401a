package list_room_reservations

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	ListByRoom(ctx context.Context, req *models.ListByRoomRequest) ([]*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
