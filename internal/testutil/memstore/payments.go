package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/payment"
)

// PaymentRepo журнал платежей в памяти
type PaymentRepo struct {
	s *Store
}

// Payments репозиторий платежей
func (s *Store) Payments() *PaymentRepo {
	return &PaymentRepo{s: s}
}

func (r *PaymentRepo) Create(ctx context.Context, p *domain.ReservationPayment) (*domain.ReservationPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Payments.Create"); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", payment.ErrExecQuery, err)
	}

	p.ID = r.s.id()
	p.CreatedAt = r.s.now()
	if p.PaymentDate.IsZero() {
		p.PaymentDate = p.CreatedAt
	}
	stored := *p
	r.s.payments[p.ID] = &stored
	id := p.ID
	r.s.record(ctx, func() { delete(r.s.payments, id) })
	return p, nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id int64) (*domain.ReservationPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payments[id]
	if !ok {
		return nil, payment.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PaymentRepo) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.ReservationPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*domain.ReservationPayment, 0)
	for _, p := range r.s.payments {
		if p.ReservationID == reservationID {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *PaymentRepo) Settle(ctx context.Context, id int64, status domain.PaymentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payments[id]
	if !ok || p.Status != domain.PaymentPending {
		return payment.ErrPaymentNotFound
	}
	prev := *p
	p.Status = status
	r.s.record(ctx, func() { r.s.payments[id] = &prev })
	return nil
}
