package rule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

const table = "availability_rules"

var columns = []string{
	"id",
	"company_id",
	"room_id",
	"rule_type",
	"rule_value",
	"priority",
	"active_from",
	"active_to",
	"is_active",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил доступности и цен
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое правило
func (r *Repository) Create(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"company_id",
			"room_id",
			"rule_type",
			"rule_value",
			"priority",
			"active_from",
			"active_to",
			"is_active",
			"created_by",
		).
		Values(
			rule.CompanyID,
			rule.RoomID,
			rule.Type,
			jsonValue(rule.Value),
			rule.Priority,
			dateOrNil(rule.ActiveFrom),
			dateOrNil(rule.ActiveTo),
			rule.IsActive,
			rule.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return rule, nil
}

// Update перезаписывает изменяемые поля правила
func (r *Repository) Update(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("room_id", rule.RoomID).
		Set("rule_type", rule.Type).
		Set("rule_value", jsonValue(rule.Value)).
		Set("priority", rule.Priority).
		Set("active_from", dateOrNil(rule.ActiveFrom)).
		Set("active_to", dateOrNil(rule.ActiveTo)).
		Set("is_active", rule.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rule.ID, "company_id": rule.CompanyID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return rule, nil
}

// GetByID получает правило по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error) {
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

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// ListActiveForRoom активные правила номера и правила всей компании
func (r *Repository) ListActiveForRoom(ctx context.Context, companyID, roomID int64) ([]*domain.AvailabilityRule, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"company_id": companyID, "is_active": true}).
		Where(squirrel.Or{
			squirrel.Eq{"room_id": nil},
			squirrel.Eq{"room_id": roomID},
		}).
		OrderBy("priority DESC", "id ASC")

	return r.list(ctx, "ListActiveForRoom", builder)
}

// ListByCompany правила компании, опционально только для номера и только активные
func (r *Repository) ListByCompany(ctx context.Context, companyID int64, roomID *int64, includeInactive bool) ([]*domain.AvailabilityRule, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("priority DESC", "id ASC")

	if roomID != nil {
		builder = builder.Where(squirrel.Eq{"room_id": *roomID})
	}
	if !includeInactive {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}

	return r.list(ctx, "ListByCompany", builder)
}

// Deactivate выключает правило (правила не удаляются физически)
func (r *Repository) Deactivate(ctx context.Context, companyID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
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
		return ErrRuleNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.AvailabilityRule, error) {
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

	rules := make([]*domain.AvailabilityRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return rules, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.AvailabilityRule, error) {
	var rule domain.AvailabilityRule
	var value []byte
	var activeFrom, activeTo sql.NullTime

	err := row.Scan(
		&rule.ID,
		&rule.CompanyID,
		&rule.RoomID,
		&rule.Type,
		&value,
		&rule.Priority,
		&activeFrom,
		&activeTo,
		&rule.IsActive,
		&rule.CreatedBy,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Value = json.RawMessage(value)
	if activeFrom.Valid {
		d := types.Date(activeFrom.Time)
		rule.ActiveFrom = &d
	}
	if activeTo.Valid {
		d := types.Date(activeTo.Time)
		rule.ActiveTo = &d
	}

	return &rule, nil
}

// jsonValue JSONB передаётся строкой, []byte драйвер отправил бы как bytea
func jsonValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

func dateOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return types.Date(*t)
}
