package settle_payment

import (
	"context"

	recordPayment "github.com/m04kA/SMC-RoomReservationService/internal/usecase/record_payment"
)

type SettlePaymentUseCase interface {
	Settle(ctx context.Context, req *recordPayment.SettleRequest) (*recordPayment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
