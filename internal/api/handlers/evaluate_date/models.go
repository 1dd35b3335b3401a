package evaluate_date

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/engine/ruleengine"
)

// EvaluationResponse HTTP response model
type EvaluationResponse struct {
	RoomID             int64            `json:"roomId"`
	Date               string           `json:"date"`
	IsAvailable        bool             `json:"isAvailable"`
	Price              decimal.Decimal  `json:"price"`
	CustomPrice        *decimal.Decimal `json:"customPrice,omitempty"`
	MinNights          *int             `json:"minNights,omitempty"`
	AvailabilityRuleID *int64           `json:"availabilityRuleId,omitempty"`
	PriceRuleID        *int64           `json:"priceRuleId,omitempty"`
	MinStayRuleID      *int64           `json:"minStayRuleId,omitempty"`
}

// FromEvaluation конвертирует результат вычисления правил в HTTP response
func FromEvaluation(roomID int64, e *ruleengine.Evaluation) *EvaluationResponse {
	return &EvaluationResponse{
		RoomID:             roomID,
		Date:               e.Date.Format(domain.DateFormat),
		IsAvailable:        e.IsAvailable,
		Price:              e.Price,
		CustomPrice:        e.CustomPrice,
		MinNights:          e.MinNights,
		AvailabilityRuleID: e.AvailabilityRuleID,
		PriceRuleID:        e.PriceRuleID,
		MinStayRuleID:      e.MinStayRuleID,
	}
}
