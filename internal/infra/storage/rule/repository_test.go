package rule

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
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
	now := time.Now()
	from := types.NewDate(2025, 12, 20)

	mock.ExpectQuery(`INSERT INTO availability_rules \(company_id,room_id,rule_type,rule_value,priority,active_from,active_to,is_active,created_by\)`).
		WithArgs(int64(1), int64(7), domain.RuleCustomPrice, `{"amount":"120"}`, 10, from, nil, true, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	rule, err := repo.Create(context.Background(), &domain.AvailabilityRule{
		CompanyID:  1,
		RoomID:     ptr.Ptr(int64(7)),
		Type:       domain.RuleCustomPrice,
		Value:      json.RawMessage(`{"amount":"120"}`),
		Priority:   10,
		ActiveFrom: &from,
		IsActive:   true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), rule.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListActiveForRoom(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM availability_rules WHERE company_id = \$1 AND is_active = \$2 AND \(room_id IS NULL OR room_id = \$3\) ORDER BY priority DESC, id ASC`).
		WithArgs(int64(1), true, int64(7)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), int64(1), nil, "blackout", `{}`, 10, types.NewDate(2025, 12, 25), types.NewDate(2025, 12, 25), true, nil, now, now).
			AddRow(int64(2), int64(1), int64(7), "min_stay", `{"nights":2}`, 0, nil, nil, true, int64(3), now, now))

	rules, err := repo.ListActiveForRoom(context.Background(), 1, 7)

	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Nil(t, rules[0].RoomID)
	assert.Equal(t, domain.RuleBlackout, rules[0].Type)
	require.NotNil(t, rules[0].ActiveTo)
	assert.Equal(t, types.NewDate(2025, 12, 25), *rules[0].ActiveTo)
	assert.Equal(t, int64(7), *rules[1].RoomID)
	assert.JSONEq(t, `{"nights":2}`, string(rules[1].Value))
	assert.Nil(t, rules[1].ActiveFrom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`UPDATE availability_rules SET`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

	_, err := repo.Update(context.Background(), &domain.AvailabilityRule{ID: 5, CompanyID: 1, Type: domain.RuleBlackout})

	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestRepository_Deactivate(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE availability_rules SET is_active = \$1, updated_at = NOW\(\) WHERE company_id = \$2 AND id = \$3`).
		WithArgs(false, int64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), 1, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
