package ruleengine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

var (
	testRoom = domain.Room{ID: 7, CompanyID: 1, BasePrice: decimal.NewFromInt(100), MaxOccupancy: 2}
	created  = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

func rule(id int64, t domain.RuleType, value string, priority int) *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		ID:        id,
		CompanyID: 1,
		Type:      t,
		Value:     json.RawMessage(value),
		Priority:  priority,
		IsActive:  true,
		CreatedAt: created,
	}
}

func forRoom(r *domain.AvailabilityRule, roomID int64) *domain.AvailabilityRule {
	r.RoomID = ptr.Ptr(roomID)
	return r
}

func between(r *domain.AvailabilityRule, from, to time.Time) *domain.AvailabilityRule {
	r.ActiveFrom = &from
	r.ActiveTo = &to
	return r
}

func TestEvaluate_Defaults(t *testing.T) {
	rs := Compile(nil)

	eval := rs.Evaluate(testRoom, types.NewDate(2025, 6, 1))

	assert.True(t, eval.IsAvailable)
	assert.True(t, eval.Price.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, eval.CustomPrice)
	assert.Nil(t, eval.MinNights)
	assert.Nil(t, eval.AvailabilityRuleID)
}

func TestEvaluate_HigherPriorityPriceWins(t *testing.T) {
	rs := Compile([]*domain.AvailabilityRule{
		rule(1, domain.RuleCustomPrice, `{"amount": 100}`, 5),
		rule(2, domain.RuleCustomPrice, `{"amount": 120}`, 10),
	})

	eval := rs.Evaluate(testRoom, types.NewDate(2025, 6, 1))

	assert.True(t, eval.Price.Equal(decimal.NewFromInt(120)))
	require.NotNil(t, eval.PriceRuleID)
	assert.Equal(t, int64(2), *eval.PriceRuleID)
}

func TestEvaluate_RoomSpecificWinsAtEqualPriority(t *testing.T) {
	rs := Compile([]*domain.AvailabilityRule{
		rule(1, domain.RuleCustomPrice, `{"amount": 90}`, 10),
		forRoom(rule(2, domain.RuleCustomPrice, `{"amount": 150}`, 10), 7),
		forRoom(rule(3, domain.RuleCustomPrice, `{"amount": 999}`, 50), 8),
	})

	eval := rs.Evaluate(testRoom, types.NewDate(2025, 6, 1))

	assert.True(t, eval.Price.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, int64(2), *eval.PriceRuleID)
}

func TestEvaluate_OlderRuleWinsTie(t *testing.T) {
	newer := rule(1, domain.RuleMinStay, `{"nights": 5}`, 0)
	newer.CreatedAt = created.Add(time.Hour)
	older := rule(2, domain.RuleMinStay, `{"nights": 2}`, 0)

	rs := Compile([]*domain.AvailabilityRule{newer, older})
	eval := rs.Evaluate(testRoom, types.NewDate(2025, 6, 1))

	require.NotNil(t, eval.MinNights)
	assert.Equal(t, 2, *eval.MinNights)
	assert.Equal(t, int64(2), *eval.MinStayRuleID)
}

func TestEvaluate_CompanyBlackoutOverriddenByRoomRule(t *testing.T) {
	christmas := types.NewDate(2025, 12, 25) // четверг
	rs := Compile([]*domain.AvailabilityRule{
		between(rule(1, domain.RuleBlackout, `{}`, 10), christmas, christmas),
		forRoom(rule(2, domain.RuleDayOfWeekAvailability, `{"days": ["thursday", "friday"]}`, 20), 7),
	})

	eval := rs.Evaluate(testRoom, christmas)
	assert.True(t, eval.IsAvailable)
	assert.Equal(t, int64(2), *eval.AvailabilityRuleID)

	other := domain.Room{ID: 8, CompanyID: 1, BasePrice: decimal.NewFromInt(100)}
	eval = rs.Evaluate(other, christmas)
	assert.False(t, eval.IsAvailable)
	assert.Equal(t, int64(1), *eval.AvailabilityRuleID)
}

func TestEvaluate_BlackoutWinsAtEqualPriority(t *testing.T) {
	rs := Compile([]*domain.AvailabilityRule{
		forRoom(rule(1, domain.RuleDayOfWeekAvailability, `{"days": [0,1,2,3,4,5,6]}`, 10), 7),
		rule(2, domain.RuleBlackout, `{}`, 10),
	})

	eval := rs.Evaluate(testRoom, types.NewDate(2025, 6, 1))

	assert.False(t, eval.IsAvailable)
	assert.Equal(t, int64(2), *eval.AvailabilityRuleID)
}

func TestEvaluate_DayOfWeek(t *testing.T) {
	rs := Compile([]*domain.AvailabilityRule{
		rule(1, domain.RuleDayOfWeekAvailability, `{"days": ["saturday", "sunday"]}`, 0),
	})

	assert.True(t, rs.Evaluate(testRoom, types.NewDate(2025, 6, 7)).IsAvailable)  // суббота
	assert.True(t, rs.Evaluate(testRoom, types.NewDate(2025, 6, 8)).IsAvailable)  // воскресенье
	assert.False(t, rs.Evaluate(testRoom, types.NewDate(2025, 6, 9)).IsAvailable) // понедельник
}

func TestEvaluate_ActiveRangeAndInactive(t *testing.T) {
	inactive := rule(2, domain.RuleBlackout, `{}`, 100)
	inactive.IsActive = false

	rs := Compile([]*domain.AvailabilityRule{
		between(rule(1, domain.RuleBlackout, `{}`, 0), types.NewDate(2025, 6, 10), types.NewDate(2025, 6, 12)),
		inactive,
	})

	assert.True(t, rs.Evaluate(testRoom, types.NewDate(2025, 6, 9)).IsAvailable)
	assert.False(t, rs.Evaluate(testRoom, types.NewDate(2025, 6, 10)).IsAvailable)
	assert.False(t, rs.Evaluate(testRoom, types.NewDate(2025, 6, 12)).IsAvailable)
	assert.True(t, rs.Evaluate(testRoom, types.NewDate(2025, 6, 13)).IsAvailable)
}

func TestCompile_SkipsMalformedRules(t *testing.T) {
	rs := Compile([]*domain.AvailabilityRule{
		rule(1, domain.RuleCustomPrice, `{"amount": "abc"}`, 100),
		rule(2, domain.RuleMinStay, `not json`, 100),
		rule(3, domain.RuleCustomPrice, `{"amount": 80}`, 1),
	})

	eval := rs.Evaluate(testRoom, types.NewDate(2025, 6, 1))

	assert.True(t, eval.Price.Equal(decimal.NewFromInt(80)))
	assert.Nil(t, eval.MinNights)

	issues := rs.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, int64(1), issues[0].RuleID)
	assert.ErrorIs(t, issues[0], domain.ErrRuleEvaluation)
	assert.Equal(t, int64(2), issues[1].RuleID)
}

func TestEvaluateRange(t *testing.T) {
	rs := Compile([]*domain.AvailabilityRule{
		between(rule(1, domain.RuleCustomPrice, `{"amount": 150}`, 0), types.NewDate(2025, 6, 2), types.NewDate(2025, 6, 2)),
	})

	evals := rs.EvaluateRange(testRoom, types.MustDateRange(types.NewDate(2025, 6, 1), types.NewDate(2025, 6, 4)))

	require.Len(t, evals, 3)
	assert.True(t, evals[0].Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, evals[1].Price.Equal(decimal.NewFromInt(150)))
	assert.True(t, evals[2].Price.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, types.NewDate(2025, 6, 3), evals[2].Date)
}
