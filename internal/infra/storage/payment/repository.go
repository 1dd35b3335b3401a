package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomReservationService/pkg/psqlbuilder"
)

const table = "reservation_payments"

var columns = []string{
	"id",
	"company_id",
	"reservation_id",
	"amount",
	"payment_method",
	"status",
	"payment_date",
	"refund_of_payment_id",
	"notes",
	"created_by",
	"created_at",
}

// Repository журнал платежей по бронированиям
// Записи только добавляются, изменяется лишь статус pending-платежа
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись в журнал
func (r *Repository) Create(ctx context.Context, p *domain.ReservationPayment) (*domain.ReservationPayment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"company_id",
			"reservation_id",
			"amount",
			"payment_method",
			"status",
			"payment_date",
			"refund_of_payment_id",
			"notes",
			"created_by",
		).
		Values(
			p.CompanyID,
			p.ReservationID,
			p.Amount,
			p.Method,
			p.Status,
			p.PaymentDate,
			p.RefundOfPaymentID,
			p.Notes,
			p.CreatedBy,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return p, nil
}

// GetByID получает платёж по ID, внутри транзакции с блокировкой строки
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ReservationPayment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan payment: %w", ErrScanRow, err)
	}

	return p, nil
}

// ListByReservation весь журнал бронирования в порядке добавления
func (r *Repository) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.ReservationPayment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.ReservationPayment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByReservation - scan row: %v", ErrScanRow, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - rows error: %v", ErrScanRow, err)
	}

	return payments, nil
}

// Settle переводит pending-платёж в completed или failed
// Если платёж уже не pending, возвращает ErrPaymentNotFound
func (r *Repository) Settle(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Where(squirrel.Eq{"id": id, "status": domain.PaymentPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Settle - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Settle - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Settle - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*domain.ReservationPayment, error) {
	var p domain.ReservationPayment
	err := row.Scan(
		&p.ID,
		&p.CompanyID,
		&p.ReservationID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.PaymentDate,
		&p.RefundOfPaymentID,
		&p.Notes,
		&p.CreatedBy,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
