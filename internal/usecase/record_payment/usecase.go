package record_payment

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/payments/models"
)

// UseCase use case записи платежа с автоматическим подтверждением бронирования
type UseCase struct {
	ledger       PaymentLedger
	reservations ReservationService
	txManager    TransactionManager
	policy       ConfirmPolicy
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledger PaymentLedger,
	reservations ReservationService,
	txManager TransactionManager,
	policy ConfirmPolicy,
	logger Logger,
) *UseCase {
	if policy == "" {
		policy = ConfirmOnFirstPayment
	}
	return &UseCase{
		ledger:       ledger,
		reservations: reservations,
		txManager:    txManager,
		policy:       policy,
		logger:       logger,
	}
}

// Execute записывает платёж и, если политика позволяет, подтверждает pending-бронирование
// Платёж и смена статуса выполняются в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RecordPayment: company=%d, reservation=%d, amount=%s, method=%s",
		req.CompanyID, req.ReservationID, req.Amount, req.Method)

	resp := &Response{}
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Запись в журнал
		payment, err := uc.ledger.AddPayment(txCtx, &models.AddPaymentRequest{
			CompanyID:     req.CompanyID,
			ReservationID: req.ReservationID,
			Amount:        req.Amount,
			Method:        req.Method,
			Status:        req.Status,
			PaymentDate:   req.PaymentDate,
			Notes:         req.Notes,
			CreatedBy:     req.CreatedBy,
		})
		if err != nil {
			return err
		}
		resp.Payment = payment

		// 2. Баланс и подтверждение по политике
		return uc.confirm(txCtx, req.CompanyID, req.ReservationID, resp)
	})
	if err != nil {
		uc.logger.Warn("RecordPayment: reservation id=%d: %v", req.ReservationID, err)
		return nil, err
	}

	if resp.Confirmed {
		uc.reservations.PublishConfirmed(ctx, resp.Reservation)
		uc.logger.Info("RecordPayment: reservation id=%d confirmed by payment id=%d (policy %s)",
			req.ReservationID, resp.Payment.ID, uc.policy)
	}

	uc.logger.Info("RecordPayment: payment id=%d recorded, outstanding=%s", resp.Payment.ID, resp.Balance.Outstanding)
	return resp, nil
}

// Settle проводит pending-платёж и, если политика позволяет, подтверждает бронирование
// Проведение и смена статуса выполняются в одной транзакции
func (uc *UseCase) Settle(ctx context.Context, req *SettleRequest) (*Response, error) {
	uc.logger.Info("SettlePayment: company=%d, reservation=%d, payment=%d, status=%s",
		req.CompanyID, req.ReservationID, req.PaymentID, req.Status)

	resp := &Response{}
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		payment, err := uc.ledger.Settle(txCtx, req.CompanyID, req.ReservationID, req.PaymentID, domain.PaymentStatus(req.Status))
		if err != nil {
			return err
		}
		resp.Payment = payment

		return uc.confirm(txCtx, req.CompanyID, req.ReservationID, resp)
	})
	if err != nil {
		uc.logger.Warn("SettlePayment: payment id=%d: %v", req.PaymentID, err)
		return nil, err
	}

	if resp.Confirmed {
		uc.reservations.PublishConfirmed(ctx, resp.Reservation)
		uc.logger.Info("SettlePayment: reservation id=%d confirmed by payment id=%d (policy %s)",
			req.ReservationID, resp.Payment.ID, uc.policy)
	}
	return resp, nil
}

// confirm дописывает в resp баланс и бронирование, подтверждая его по политике
func (uc *UseCase) confirm(txCtx context.Context, companyID, reservationID int64, resp *Response) error {
	balance, err := uc.ledger.Balance(txCtx, companyID, reservationID)
	if err != nil {
		return err
	}
	resp.Balance = balance

	res, err := uc.reservations.GetByID(txCtx, companyID, reservationID)
	if err != nil {
		return err
	}
	resp.Reservation = res

	if !uc.shouldConfirm(res, resp.Payment, balance) {
		return nil
	}

	confirmed, err := uc.reservations.Transition(txCtx, companyID, reservationID, domain.StatusConfirmed)
	if err != nil {
		return err
	}
	resp.Reservation = confirmed
	resp.Confirmed = true
	return nil
}

func (uc *UseCase) shouldConfirm(res *domain.Reservation, payment *domain.ReservationPayment, balance *domain.Balance) bool {
	if res.Status != domain.StatusPending || payment.Status != domain.PaymentCompleted {
		return false
	}
	if uc.policy == ConfirmOnFullPayment {
		return balance.IsFullyPaid
	}
	return true
}
