package record_payment

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/events"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/payments"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations"
	"github.com/m04kA/SMC-RoomReservationService/internal/testutil/memstore"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ReservationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func newTestUseCase(t *testing.T, policy ConfirmPolicy, status domain.ReservationStatus) (*UseCase, *memstore.Store, *recordingPublisher, int64) {
	t.Helper()
	store := memstore.New()
	pub := &recordingPublisher{}

	resSvc := reservations.NewService(store.Reservations(), store.TxManager(), pub, logger.NewNop())
	ledger := payments.NewService(store.Payments(), resSvc, store.TxManager(), logger.NewNop())

	res, err := store.Reservations().Create(context.Background(), &domain.Reservation{
		CompanyID: 1, CustomerID: 5, RoomID: 7,
		CheckInDate: types.NewDate(2025, 6, 1), CheckOutDate: types.NewDate(2025, 6, 4),
		NumberOfGuests: 2, NumberOfNights: 3, Status: status,
		RoomRate: decimal.NewFromInt(100), TotalAmount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	return NewUseCase(ledger, resSvc, store.TxManager(), policy, logger.NewNop()), store, pub, res.ID
}

func pay(amount int64) *Request {
	return &Request{CompanyID: 1, Amount: decimal.NewFromInt(amount), Method: "card"}
}

func TestExecute_FirstPaymentConfirms(t *testing.T) {
	uc, store, pub, id := newTestUseCase(t, ConfirmOnFirstPayment, domain.StatusPending)
	req := pay(50)
	req.ReservationID = id

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Confirmed)
	assert.Equal(t, domain.StatusConfirmed, resp.Reservation.Status)
	assert.Equal(t, domain.StatusConfirmed, store.Reservation(id).Status)
	assert.True(t, resp.Balance.Outstanding.Equal(decimal.NewFromInt(250)))

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.ReservationConfirmed, pub.events[0].Type)

	req = pay(50)
	req.ReservationID = id
	resp, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.Confirmed, "confirmed reservations are not confirmed twice")
	assert.Len(t, pub.events, 1)
}

func TestExecute_FullPaymentPolicy(t *testing.T) {
	uc, store, _, id := newTestUseCase(t, ConfirmOnFullPayment, domain.StatusPending)
	ctx := context.Background()

	req := pay(200)
	req.ReservationID = id
	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.Confirmed)
	assert.Equal(t, domain.StatusPending, store.Reservation(id).Status)

	req = pay(100)
	req.ReservationID = id
	resp, err = uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Confirmed)
	assert.True(t, resp.Balance.IsFullyPaid)
	assert.Equal(t, domain.StatusConfirmed, store.Reservation(id).Status)
}

func TestExecute_PendingPaymentDoesNotConfirm(t *testing.T) {
	uc, store, pub, id := newTestUseCase(t, ConfirmOnFirstPayment, domain.StatusPending)
	req := pay(300)
	req.ReservationID = id
	req.Status = ptr.Ptr("pending")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.Confirmed)
	assert.Equal(t, domain.StatusPending, store.Reservation(id).Status)
	assert.Empty(t, pub.events)
}

func TestExecute_RejectedForCancelledReservation(t *testing.T) {
	uc, _, _, id := newTestUseCase(t, ConfirmOnFirstPayment, domain.StatusCancelled)
	req := pay(10)
	req.ReservationID = id

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func recordPending(t *testing.T, uc *UseCase, id int64, amount int64) int64 {
	t.Helper()
	req := pay(amount)
	req.ReservationID = id
	req.Status = ptr.Ptr("pending")
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.False(t, resp.Confirmed)
	return resp.Payment.ID
}

func TestSettle_CompletedPaymentConfirms(t *testing.T) {
	uc, store, pub, id := newTestUseCase(t, ConfirmOnFirstPayment, domain.StatusPending)
	paymentID := recordPending(t, uc, id, 300)

	resp, err := uc.Settle(context.Background(), &SettleRequest{
		CompanyID: 1, ReservationID: id, PaymentID: paymentID, Status: "completed",
	})
	require.NoError(t, err)

	assert.True(t, resp.Confirmed)
	assert.Equal(t, domain.PaymentCompleted, resp.Payment.Status)
	assert.True(t, resp.Balance.IsFullyPaid)
	assert.Equal(t, domain.StatusConfirmed, store.Reservation(id).Status)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.ReservationConfirmed, pub.events[0].Type)
}

func TestSettle_FullPaymentPolicy(t *testing.T) {
	uc, store, _, id := newTestUseCase(t, ConfirmOnFullPayment, domain.StatusPending)
	ctx := context.Background()
	first := recordPending(t, uc, id, 200)
	second := recordPending(t, uc, id, 100)

	resp, err := uc.Settle(ctx, &SettleRequest{CompanyID: 1, ReservationID: id, PaymentID: first, Status: "completed"})
	require.NoError(t, err)
	assert.False(t, resp.Confirmed)
	assert.Equal(t, domain.StatusPending, store.Reservation(id).Status)

	resp, err = uc.Settle(ctx, &SettleRequest{CompanyID: 1, ReservationID: id, PaymentID: second, Status: "completed"})
	require.NoError(t, err)
	assert.True(t, resp.Confirmed)
	assert.Equal(t, domain.StatusConfirmed, store.Reservation(id).Status)
}

func TestSettle_FailedPaymentDoesNotConfirm(t *testing.T) {
	uc, store, pub, id := newTestUseCase(t, ConfirmOnFirstPayment, domain.StatusPending)
	paymentID := recordPending(t, uc, id, 300)

	resp, err := uc.Settle(context.Background(), &SettleRequest{
		CompanyID: 1, ReservationID: id, PaymentID: paymentID, Status: "failed",
	})
	require.NoError(t, err)
	assert.False(t, resp.Confirmed)
	assert.Equal(t, domain.StatusPending, store.Reservation(id).Status)
	assert.Empty(t, pub.events)
}

func TestParseConfirmPolicy(t *testing.T) {
	p, err := ParseConfirmPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ConfirmOnFirstPayment, p)

	p, err = ParseConfirmPolicy("full_payment")
	require.NoError(t, err)
	assert.Equal(t, ConfirmOnFullPayment, p)

	_, err = ParseConfirmPolicy("never")
	assert.Error(t, err)
}
