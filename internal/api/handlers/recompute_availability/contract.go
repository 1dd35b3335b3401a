package recompute_availability

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/calendar"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

type Calendar interface {
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
	Recompute(ctx context.Context, roomID int64, dates types.DateRange) (*calendar.RecomputeResult, error)
	Horizon() types.DateRange
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
