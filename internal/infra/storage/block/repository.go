package block

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

const table = "room_block_periods"

var columns = []string{
	"id",
	"company_id",
	"room_id",
	"start_date",
	"end_date",
	"reason",
	"is_recurring",
	"recurrence_pattern",
	"is_active",
	"created_by",
	"created_at",
}

// Repository репозиторий периодов блокировки номеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет период блокировки
func (r *Repository) Create(ctx context.Context, b *domain.RoomBlockPeriod) (*domain.RoomBlockPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"company_id",
			"room_id",
			"start_date",
			"end_date",
			"reason",
			"is_recurring",
			"recurrence_pattern",
			"is_active",
			"created_by",
		).
		Values(
			b.CompanyID,
			b.RoomID,
			types.Date(b.StartDate),
			types.Date(b.EndDate),
			b.Reason,
			b.IsRecurring,
			b.RecurrencePattern,
			b.IsActive,
			b.CreatedBy,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return b, nil
}

// GetByID получает период блокировки по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RoomBlockPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBlock(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan block: %v", ErrScanRow, err)
	}

	return b, nil
}

// ListActiveForRoom активные блокировки номера и всей компании, пересекающие диапазон
// Повторяющиеся блокировки отбираются по началу, их разворачивает blockexpander
func (r *Repository) ListActiveForRoom(ctx context.Context, companyID, roomID int64, dates types.DateRange) ([]*domain.RoomBlockPeriod, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"company_id": companyID, "is_active": true}).
		Where(squirrel.Or{
			squirrel.Eq{"room_id": nil},
			squirrel.Eq{"room_id": roomID},
		}).
		Where(squirrel.Lt{"start_date": dates.End}).
		Where(squirrel.GtOrEq{"end_date": dates.Start}).
		OrderBy("id ASC")

	return r.list(ctx, "ListActiveForRoom", builder)
}

// ListByCompany блокировки компании, опционально только для номера
func (r *Repository) ListByCompany(ctx context.Context, companyID int64, roomID *int64, includeInactive bool) ([]*domain.RoomBlockPeriod, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("start_date ASC", "id ASC")

	if roomID != nil {
		builder = builder.Where(squirrel.Eq{"room_id": *roomID})
	}
	if !includeInactive {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}

	return r.list(ctx, "ListByCompany", builder)
}

// Deactivate выключает блокировку
func (r *Repository) Deactivate(ctx context.Context, companyID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_active", false).
		Where(squirrel.Eq{"id": id, "company_id": companyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %w", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.RoomBlockPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	blocks := make([]*domain.RoomBlockPeriod, 0)
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return blocks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row rowScanner) (*domain.RoomBlockPeriod, error) {
	var b domain.RoomBlockPeriod
	var pattern sql.NullString

	err := row.Scan(
		&b.ID,
		&b.CompanyID,
		&b.RoomID,
		&b.StartDate,
		&b.EndDate,
		&b.Reason,
		&b.IsRecurring,
		&pattern,
		&b.IsActive,
		&b.CreatedBy,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.StartDate = types.Date(b.StartDate)
	b.EndDate = types.Date(b.EndDate)
	if pattern.Valid {
		p := domain.RecurrencePattern(pattern.String)
		b.RecurrencePattern = &p
	}

	return &b, nil
}
