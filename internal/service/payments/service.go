package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/payments/models"
)

// Service журнал платежей бронирований
// Записи только добавляются, возврат оформляется новой записью
type Service struct {
	paymentRepo  PaymentRepository
	reservations ReservationReader
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(
	paymentRepo PaymentRepository,
	reservations ReservationReader,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		paymentRepo:  paymentRepo,
		reservations: reservations,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// AddPayment добавляет платёж по бронированию
// Отменённые и завершённые бронирования платежей не принимают
func (s *Service) AddPayment(ctx context.Context, req *models.AddPaymentRequest) (*domain.ReservationPayment, error) {
	s.logger.Info("AddPayment: reservation id=%d amount=%s method=%s", req.ReservationID, req.Amount, req.Method)

	// 1. Валидация
	if !req.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "must be positive")
	}
	method := domain.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, domain.NewValidationError("method", "unknown payment method %q", req.Method)
	}
	status := domain.PaymentCompleted
	if req.Status != nil {
		status = domain.PaymentStatus(*req.Status)
		if !status.IsValid() || status == domain.PaymentRefunded {
			return nil, domain.NewValidationError("status", "must be one of pending, completed, failed")
		}
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, domain.NewValidationError("notes", "must be at most %d characters", domain.MaxNotesLength)
	}

	var created *domain.ReservationPayment
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Бронирование (блокируется до конца транзакции)
		res, err := s.reservations.GetByID(txCtx, req.CompanyID, req.ReservationID)
		if err != nil {
			return err
		}
		if res.Status == domain.StatusCancelled || res.Status == domain.StatusCheckedOut {
			return domain.NewValidationError("reservation", "cannot accept payments in status %s", res.Status)
		}

		// 3. Запись в журнал
		p := &domain.ReservationPayment{
			CompanyID:     res.CompanyID,
			ReservationID: res.ID,
			Amount:        req.Amount,
			Method:        method,
			Status:        status,
			PaymentDate:   s.timeProvider.Now(),
			Notes:         req.Notes,
			CreatedBy:     req.CreatedBy,
		}
		if req.PaymentDate != nil {
			p.PaymentDate = *req.PaymentDate
		}

		created, err = s.paymentRepo.Create(txCtx, p)
		if err != nil {
			s.logger.Error("AddPayment: repository error for reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: AddPayment - create payment: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("AddPayment: payment id=%d recorded for reservation id=%d", created.ID, created.ReservationID)
	return created, nil
}

// Refund оформляет возврат по завершённому платежу
// Сумма возвратов по платежу не превышает сумму платежа, статус бронирования не важен
func (s *Service) Refund(ctx context.Context, req *models.RefundRequest) (*domain.ReservationPayment, error) {
	s.logger.Info("Refund: payment id=%d reservation id=%d", req.PaymentID, req.ReservationID)

	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "must be positive")
	}

	var refund *domain.ReservationPayment
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.reservations.GetByID(txCtx, req.CompanyID, req.ReservationID)
		if err != nil {
			return err
		}

		original, err := s.getPayment(txCtx, res.ID, req.PaymentID)
		if err != nil {
			return err
		}
		if original.Status != domain.PaymentCompleted {
			return domain.NewValidationError("payment_id", "only completed payments can be refunded, payment is %s", original.Status)
		}

		ledger, err := s.paymentRepo.ListByReservation(txCtx, res.ID)
		if err != nil {
			return fmt.Errorf("%w: Refund - list payments: %w", ErrInternal, err)
		}

		remaining := original.Amount.Sub(domain.RefundedAmount(original.ID, ledger))
		if !remaining.IsPositive() {
			return domain.NewValidationError("payment_id", "payment %d is already fully refunded", original.ID)
		}
		amount := remaining
		if req.Amount != nil {
			amount = *req.Amount
		}
		if amount.GreaterThan(remaining) {
			return domain.NewValidationError("amount", "exceeds refundable amount %s", remaining)
		}

		paymentID := original.ID
		refund, err = s.paymentRepo.Create(txCtx, &domain.ReservationPayment{
			CompanyID:         res.CompanyID,
			ReservationID:     res.ID,
			Amount:            amount,
			Method:            original.Method,
			Status:            domain.PaymentRefunded,
			PaymentDate:       s.timeProvider.Now(),
			RefundOfPaymentID: &paymentID,
			Notes:             req.Notes,
			CreatedBy:         req.CreatedBy,
		})
		if err != nil {
			s.logger.Error("Refund: repository error for payment id=%d: %v", req.PaymentID, err)
			return fmt.Errorf("%w: Refund - create refund: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Refund: refund id=%d amount=%s for payment id=%d", refund.ID, refund.Amount, req.PaymentID)
	return refund, nil
}

// Settle переводит pending-платёж в completed или failed
// Провести платёж по отменённому или завершённому бронированию нельзя
func (s *Service) Settle(ctx context.Context, companyID, reservationID, paymentID int64, status domain.PaymentStatus) (*domain.ReservationPayment, error) {
	if status != domain.PaymentCompleted && status != domain.PaymentFailed {
		return nil, domain.NewValidationError("status", "must be completed or failed")
	}

	var settled *domain.ReservationPayment
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.reservations.GetByID(txCtx, companyID, reservationID)
		if err != nil {
			return err
		}
		if status == domain.PaymentCompleted && (res.Status == domain.StatusCancelled || res.Status == domain.StatusCheckedOut) {
			return domain.NewValidationError("reservation", "cannot accept payments in status %s", res.Status)
		}

		p, err := s.getPayment(txCtx, res.ID, paymentID)
		if err != nil {
			return err
		}
		if p.Status != domain.PaymentPending {
			return domain.NewValidationError("payment_id", "payment is %s, only pending payments can be settled", p.Status)
		}

		if err := s.paymentRepo.Settle(txCtx, paymentID, status); err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				return domain.NewNotFoundError("payment", paymentID)
			}
			return fmt.Errorf("%w: Settle - repository error: %w", ErrInternal, err)
		}

		p.Status = status
		settled = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Settle: payment id=%d is now %s", paymentID, status)
	return settled, nil
}

// Balance баланс бронирования: Total - Σ completed + Σ refunded
func (s *Service) Balance(ctx context.Context, companyID, reservationID int64) (*domain.Balance, error) {
	res, err := s.reservations.GetByID(ctx, companyID, reservationID)
	if err != nil {
		return nil, err
	}

	ledger, err := s.paymentRepo.ListByReservation(ctx, res.ID)
	if err != nil {
		s.logger.Error("Balance: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: Balance - list payments: %w", ErrInternal, err)
	}

	balance := domain.ComputeBalance(res.ID, res.TotalAmount, ledger)
	return &balance, nil
}

// IsFullyPaid проверяет, что к оплате ничего не осталось
func (s *Service) IsFullyPaid(ctx context.Context, companyID, reservationID int64) (bool, error) {
	balance, err := s.Balance(ctx, companyID, reservationID)
	if err != nil {
		return false, err
	}
	return balance.IsFullyPaid, nil
}

// List журнал платежей бронирования в порядке записи
func (s *Service) List(ctx context.Context, companyID, reservationID int64) ([]*domain.ReservationPayment, error) {
	res, err := s.reservations.GetByID(ctx, companyID, reservationID)
	if err != nil {
		return nil, err
	}

	ledger, err := s.paymentRepo.ListByReservation(ctx, res.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: List - list payments: %w", ErrInternal, err)
	}
	return ledger, nil
}

// getPayment платёж бронирования, платёж другого бронирования не виден
func (s *Service) getPayment(ctx context.Context, reservationID, paymentID int64) (*domain.ReservationPayment, error) {
	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			return nil, domain.NewNotFoundError("payment", paymentID)
		}
		return nil, fmt.Errorf("%w: getPayment - repository error: %w", ErrInternal, err)
	}
	if p.ReservationID != reservationID {
		return nil, domain.NewNotFoundError("payment", paymentID)
	}
	return p, nil
}
