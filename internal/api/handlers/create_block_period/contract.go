package create_block_period

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/blocks/models"
)

type BlockService interface {
	Create(ctx context.Context, req *models.CreateBlockRequest) (*domain.RoomBlockPeriod, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
