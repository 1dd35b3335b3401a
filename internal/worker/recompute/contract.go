package recompute

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/cell"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/calendar"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Calendar пересчёт календаря номера
type Calendar interface {
	Recompute(ctx context.Context, roomID int64, dates types.DateRange) (*calendar.RecomputeResult, error)
	Horizon() types.DateRange
}

// RoomLister номера с материализованным календарём
type RoomLister interface {
	ListRooms(ctx context.Context) ([]cell.RoomRef, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
