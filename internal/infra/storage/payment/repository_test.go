package payment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)
	paidAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO reservation_payments \(company_id,reservation_id,amount,payment_method,status`).
		WithArgs(int64(10), int64(1), "150", domain.MethodCard, domain.PaymentCompleted, paidAt, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), paidAt))

	p, err := repo.Create(context.Background(), &domain.ReservationPayment{
		CompanyID:     10,
		ReservationID: 1,
		Amount:        decimal.NewFromInt(150),
		Method:        domain.MethodCard,
		Status:        domain.PaymentCompleted,
		PaymentDate:   paidAt,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByReservation(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM reservation_payments WHERE reservation_id = \$1 ORDER BY id ASC`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), int64(10), int64(1), "200.00", "card", "completed", now, nil, nil, nil, now).
			AddRow(int64(2), int64(10), int64(1), "50.00", "card", "refunded", now, int64(1), "partial", nil, now))

	payments, err := repo.ListByReservation(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(200)))
	assert.Nil(t, payments[0].RefundOfPaymentID)
	assert.Equal(t, domain.PaymentRefunded, payments[1].Status)
	require.NotNil(t, payments[1].RefundOfPaymentID)
	assert.Equal(t, int64(1), *payments[1].RefundOfPaymentID)
	assert.Equal(t, "partial", *payments[1].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Settle(t *testing.T) {
	t.Run("pending payment", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(`UPDATE reservation_payments SET status = \$1 WHERE id = \$2 AND status = \$3`).
			WithArgs(domain.PaymentCompleted, int64(5), domain.PaymentPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Settle(context.Background(), 5, domain.PaymentCompleted))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already settled", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(`UPDATE reservation_payments`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Settle(context.Background(), 5, domain.PaymentFailed), ErrPaymentNotFound)
	})
}
