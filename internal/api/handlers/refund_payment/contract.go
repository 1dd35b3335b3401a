package refund_payment

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/payments/models"
)

type PaymentService interface {
	Refund(ctx context.Context, req *models.RefundRequest) (*domain.ReservationPayment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
