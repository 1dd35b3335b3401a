package cell

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

const table = "availability_cells"

var columns = []string{
	"room_id",
	"company_id",
	"date",
	"is_available",
	"is_blocked",
	"block_reason",
	"custom_price",
	"min_nights",
	"reservation_id",
	"conflict_reason",
	"updated_at",
}

var insertColumns = []string{
	"room_id",
	"company_id",
	"date",
	"is_available",
	"is_blocked",
	"block_reason",
	"custom_price",
	"min_nights",
	"reservation_id",
}

// Занятые ячейки никогда не перезаписываются пересчётом и повторным захватом
const (
	upsertUnclaimedSuffix = `ON CONFLICT (room_id, date) DO UPDATE SET ` +
		`is_available = EXCLUDED.is_available, ` +
		`is_blocked = EXCLUDED.is_blocked, ` +
		`block_reason = EXCLUDED.block_reason, ` +
		`custom_price = EXCLUDED.custom_price, ` +
		`min_nights = EXCLUDED.min_nights, ` +
		`conflict_reason = NULL, ` +
		`updated_at = NOW() ` +
		`WHERE availability_cells.reservation_id IS NULL`

	claimSuffix = `ON CONFLICT (room_id, date) DO UPDATE SET ` +
		`reservation_id = EXCLUDED.reservation_id, ` +
		`is_available = FALSE, ` +
		`conflict_reason = NULL, ` +
		`updated_at = NOW() ` +
		`WHERE availability_cells.reservation_id IS NULL`
)

// RoomRef номер, для которого материализован календарь
type RoomRef struct {
	RoomID    int64
	CompanyID int64
}

// Repository репозиторий материализованного календаря доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockRoom берёт транзакционную advisory-блокировку номера
// Блокировка снимается при commit/rollback, поэтому вызов допустим только внутри транзакции
func (r *Repository) LockRoom(ctx context.Context, roomID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockRoom - room=%d: no transaction in context", ErrLockRoom, roomID)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", roomID); err != nil {
		return fmt.Errorf("%w: LockRoom - room=%d: %w", ErrLockRoom, roomID, err)
	}

	return nil
}

// ListRange ячейки номера в диапазоне по возрастанию даты
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) ListRange(ctx context.Context, roomID int64, dates types.DateRange) ([]*domain.AvailabilityCell, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.GtOrEq{"date": dates.Start}).
		Where(squirrel.Lt{"date": dates.End}).
		OrderBy("date ASC")

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return r.list(ctx, "ListRange", builder)
}

// ListConflicts занятые ячейки, помеченные пересчётом для ручной проверки
func (r *Repository) ListConflicts(ctx context.Context, roomID int64) ([]*domain.AvailabilityCell, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.NotEq{"conflict_reason": nil}).
		OrderBy("date ASC")

	return r.list(ctx, "ListConflicts", builder)
}

// UpsertUnclaimed записывает вычисленное состояние ячеек
// Ячейки, занятые бронированием, не изменяются. Возвращает количество записанных строк
func (r *Repository) UpsertUnclaimed(ctx context.Context, cells []*domain.AvailabilityCell) (int64, error) {
	if len(cells) == 0 {
		return 0, nil
	}

	builder := psqlbuilder.Insert(table).Columns(insertColumns...)
	for _, c := range cells {
		c.Normalize()
		builder = builder.Values(
			c.RoomID,
			c.CompanyID,
			types.Date(c.Date),
			c.IsAvailable,
			c.IsBlocked,
			c.BlockReason,
			nullDecimal(c.CustomPrice),
			c.MinNights,
			nil,
		)
	}

	query, args, err := builder.Suffix(upsertUnclaimedSuffix).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: UpsertUnclaimed - build insert query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, "UpsertUnclaimed", query, args)
}

// Claim закрепляет ячейки за бронированием
// Ячейка, уже занятая другим бронированием, не изменяется и не попадает в счётчик,
// поэтому результат меньше len(cells) означает проигранную гонку
func (r *Repository) Claim(ctx context.Context, cells []*domain.AvailabilityCell, reservationID int64) (int64, error) {
	if len(cells) == 0 {
		return 0, nil
	}

	builder := psqlbuilder.Insert(table).Columns(insertColumns...)
	for _, c := range cells {
		builder = builder.Values(
			c.RoomID,
			c.CompanyID,
			types.Date(c.Date),
			false,
			c.IsBlocked,
			c.BlockReason,
			nullDecimal(c.CustomPrice),
			c.MinNights,
			reservationID,
		)
	}

	query, args, err := builder.Suffix(claimSuffix).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Claim - build insert query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, "Claim", query, args)
}

// Release освобождает ячейки бронирования и возвращает освобождённые даты
// Доступность по правилам восстанавливает последующий пересчёт
func (r *Repository) Release(ctx context.Context, roomID, reservationID int64) ([]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("reservation_id", nil).
		Set("conflict_reason", nil).
		Set("is_available", squirrel.Expr("NOT is_blocked")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"room_id": roomID, "reservation_id": reservationID}).
		Suffix("RETURNING date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Release - execute update: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%w: Release - scan date: %v", ErrScanRow, err)
		}
		dates = append(dates, types.Date(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Release - rows error: %v", ErrScanRow, err)
	}

	return dates, nil
}

// SetConflictReason помечает или снимает пометку конфликта у занятой ячейки
func (r *Repository) SetConflictReason(ctx context.Context, roomID int64, date time.Time, reason *string) error {
	query, args, err := psqlbuilder.Update(table).
		Set("conflict_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"room_id": roomID, "date": types.Date(date)}).
		Where(squirrel.NotEq{"reservation_id": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetConflictReason - build update query: %v", ErrBuildQuery, err)
	}

	_, err = r.exec(ctx, "SetConflictReason", query, args)
	return err
}

// ListRooms номера, для которых есть материализованные ячейки
func (r *Repository) ListRooms(ctx context.Context) ([]RoomRef, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT room_id", "company_id").
		From(table).
		OrderBy("room_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRooms - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRooms - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	refs := make([]RoomRef, 0)
	for rows.Next() {
		var ref RoomRef
		if err := rows.Scan(&ref.RoomID, &ref.CompanyID); err != nil {
			return nil, fmt.Errorf("%w: ListRooms - scan row: %v", ErrScanRow, err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRooms - rows error: %v", ErrScanRow, err)
	}

	return refs, nil
}

func (r *Repository) exec(ctx context.Context, op, query string, args []interface{}) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return rowsAffected, nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.AvailabilityCell, error) {
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

	cells := make([]*domain.AvailabilityCell, 0)
	for rows.Next() {
		var c domain.AvailabilityCell
		var price decimal.NullDecimal

		err := rows.Scan(
			&c.RoomID,
			&c.CompanyID,
			&c.Date,
			&c.IsAvailable,
			&c.IsBlocked,
			&c.BlockReason,
			&price,
			&c.MinNights,
			&c.ReservationID,
			&c.ConflictReason,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}

		c.Date = types.Date(c.Date)
		if price.Valid {
			p := price.Decimal
			c.CustomPrice = &p
		}
		cells = append(cells, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return cells, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
