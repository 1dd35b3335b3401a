package evaluate_date

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/engine/ruleengine"
)

type Calendar interface {
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
	Evaluate(ctx context.Context, roomID int64, date time.Time) (*ruleengine.Evaluation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
