package blocks

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/worker/recompute"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// BlockRepository интерфейс хранилища периодов блокировки
type BlockRepository interface {
	Create(ctx context.Context, block *domain.RoomBlockPeriod) (*domain.RoomBlockPeriod, error)
	GetByID(ctx context.Context, id int64) (*domain.RoomBlockPeriod, error)
	ListByCompany(ctx context.Context, companyID int64, roomID *int64, includeInactive bool) ([]*domain.RoomBlockPeriod, error)
	Deactivate(ctx context.Context, companyID, id int64) error
}

// RoomReader интерфейс каталога номеров
type RoomReader interface {
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
	ListCompanyRooms(ctx context.Context, companyID int64) ([]*domain.Room, error)
}

// Horizon горизонт материализованного календаря
type Horizon interface {
	Horizon() types.DateRange
}

// RecomputeQueue очередь фонового пересчёта
type RecomputeQueue interface {
	Enqueue(job recompute.Job)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
