package upsert_rule

import (
	"encoding/json"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rules/models"
)

// UpsertRuleRequest HTTP request model
// Без id создаётся новое правило, без roomId правило действует на все номера компании
type UpsertRuleRequest struct {
	ID         *int64          `json:"id,omitempty" validate:"omitempty,gt=0"`
	RoomID     *int64          `json:"roomId,omitempty" validate:"omitempty,gt=0"`
	RuleType   string          `json:"ruleType" validate:"required,oneof=blackout min_stay custom_price day_of_week_availability"`
	RuleValue  json.RawMessage `json:"ruleValue,omitempty"`
	Priority   int             `json:"priority" validate:"min=-1000,max=1000"`
	ActiveFrom *string         `json:"activeFrom,omitempty"` // "2025-12-01"
	ActiveTo   *string         `json:"activeTo,omitempty"`   // включительно
	IsActive   *bool           `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertRuleRequest) ToServiceRequest(companyID, userID int64) (*models.UpsertRuleRequest, error) {
	activeFrom, err := handlers.ParseOptionalDate("activeFrom", r.ActiveFrom)
	if err != nil {
		return nil, err
	}
	activeTo, err := handlers.ParseOptionalDate("activeTo", r.ActiveTo)
	if err != nil {
		return nil, err
	}

	return &models.UpsertRuleRequest{
		CompanyID:  companyID,
		ID:         r.ID,
		RoomID:     r.RoomID,
		Type:       r.RuleType,
		Value:      r.RuleValue,
		Priority:   r.Priority,
		ActiveFrom: activeFrom,
		ActiveTo:   activeTo,
		IsActive:   r.IsActive,
		CreatedBy:  &userID,
	}, nil
}
