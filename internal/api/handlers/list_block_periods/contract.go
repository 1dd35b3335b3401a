package list_block_periods

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/blocks/models"
)

type BlockService interface {
	List(ctx context.Context, req *models.ListBlocksRequest) ([]*domain.RoomBlockPeriod, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
