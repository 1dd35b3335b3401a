package get_availability

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/service/calendar"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Calendar интерфейс чтения доступности
type Calendar interface {
	GetAvailability(ctx context.Context, roomID int64, dates types.DateRange) ([]calendar.Day, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
