package list_conflicts

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

type Calendar interface {
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
	ListConflicts(ctx context.Context, roomID int64) ([]*domain.AvailabilityCell, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
