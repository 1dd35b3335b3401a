package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

const table = "reservations"

var columns = []string{
	"id",
	"company_id",
	"customer_id",
	"room_id",
	"check_in_date",
	"check_out_date",
	"number_of_guests",
	"status",
	"room_rate",
	"total_amount",
	"number_of_nights",
	"notes",
	"created_by",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование и заполняет ID и временные метки
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"company_id",
			"customer_id",
			"room_id",
			"check_in_date",
			"check_out_date",
			"number_of_guests",
			"status",
			"room_rate",
			"total_amount",
			"number_of_nights",
			"notes",
			"created_by",
		).
		Values(
			res.CompanyID,
			res.CustomerID,
			res.RoomID,
			types.Date(res.CheckInDate),
			types.Date(res.CheckOutDate),
			res.NumberOfGuests,
			res.Status,
			res.RoomRate,
			res.TotalAmount,
			res.NumberOfNights,
			res.Notes,
			res.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
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

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// ListOverlapping бронирования номера в указанных статусах, пересекающие диапазон
// Пересечение полуоткрытых диапазонов: check_in < range.End AND check_out > range.Start
func (r *Repository) ListOverlapping(ctx context.Context, roomID int64, dates types.DateRange, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	return r.List(ctx, domain.ReservationFilter{RoomID: roomID, Range: &dates, Statuses: statuses})
}

// List бронирования по фильтру, отсортированные по дате заезда
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("check_in_date ASC", "id ASC")

	if filter.CompanyID != 0 {
		builder = builder.Where(squirrel.Eq{"company_id": filter.CompanyID})
	}
	if filter.RoomID != 0 {
		builder = builder.Where(squirrel.Eq{"room_id": filter.RoomID})
	}
	if filter.Range != nil {
		builder = builder.
			Where(squirrel.Lt{"check_in_date": filter.Range.End}).
			Where(squirrel.Gt{"check_out_date": filter.Range.Start})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		builder = builder.Where(squirrel.Eq{"status": statuses})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Cancel переводит бронирование в cancelled с причиной и временем отмены
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var cancelledAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.CompanyID,
		&res.CustomerID,
		&res.RoomID,
		&res.CheckInDate,
		&res.CheckOutDate,
		&res.NumberOfGuests,
		&res.Status,
		&res.RoomRate,
		&res.TotalAmount,
		&res.NumberOfNights,
		&res.Notes,
		&res.CreatedBy,
		&res.CancellationReason,
		&cancelledAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CheckInDate = types.Date(res.CheckInDate)
	res.CheckOutDate = types.Date(res.CheckOutDate)
	if cancelledAt.Valid {
		t := cancelledAt.Time
		res.CancelledAt = &t
	}

	return &res, nil
}
