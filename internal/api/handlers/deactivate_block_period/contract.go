package deactivate_block_period

import (
	"context"
)

type BlockService interface {
	Deactivate(ctx context.Context, companyID, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
