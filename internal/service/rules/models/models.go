package models

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Request модели

// UpsertRuleRequest запрос на создание или изменение правила
// ID == nil создаёт новое правило
type UpsertRuleRequest struct {
	CompanyID  int64
	ID         *int64
	RoomID     *int64 // nil = все номера компании
	Type       string
	Value      json.RawMessage
	Priority   int
	ActiveFrom *time.Time
	ActiveTo   *time.Time
	IsActive   *bool // по умолчанию true
	CreatedBy  *int64
}

// ListRulesRequest запрос на список правил компании
type ListRulesRequest struct {
	CompanyID       int64
	RoomID          *int64
	IncludeInactive bool
}

// Response модели

// RuleResponse ответ с данными правила
type RuleResponse struct {
	ID         int64           `json:"id"`
	CompanyID  int64           `json:"companyId"`
	RoomID     *int64          `json:"roomId,omitempty"`
	Type       string          `json:"ruleType"`
	Value      json.RawMessage `json:"ruleValue"`
	Priority   int             `json:"priority"`
	ActiveFrom *string         `json:"activeFrom,omitempty"`
	ActiveTo   *string         `json:"activeTo,omitempty"`
	IsActive   bool            `json:"isActive"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.AvailabilityRule) *RuleResponse {
	if r == nil {
		return nil
	}
	return &RuleResponse{
		ID:         r.ID,
		CompanyID:  r.CompanyID,
		RoomID:     r.RoomID,
		Type:       string(r.Type),
		Value:      r.Value,
		Priority:   r.Priority,
		ActiveFrom: formatDate(r.ActiveFrom),
		ActiveTo:   formatDate(r.ActiveTo),
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// FromDomainRuleList конвертирует список правил в DTO
func FromDomainRuleList(rules []*domain.AvailabilityRule) []*RuleResponse {
	result := make([]*RuleResponse, 0, len(rules))
	for _, r := range rules {
		result = append(result, FromDomainRule(r))
	}
	return result
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}
