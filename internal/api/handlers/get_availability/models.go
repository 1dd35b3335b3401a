package get_availability

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	getAvailability "github.com/m04kA/SMC-RoomReservationService/internal/usecase/get_availability"
)

// DayResponse состояние одной ночи
type DayResponse struct {
	Date      string          `json:"date"` // "2025-06-01"
	Available bool            `json:"available"`
	Price     decimal.Decimal `json:"price"`
	MinNights *int            `json:"minNights,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	RoomID    int64            `json:"roomId"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Bookable  bool             `json:"bookable"`
	Total     *decimal.Decimal `json:"total,omitempty"`
	MinNights *int             `json:"minNights,omitempty"`
	Days      []DayResponse    `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		RoomID:    resp.RoomID,
		From:      resp.From.Format(domain.DateFormat),
		To:        resp.To.Format(domain.DateFormat),
		Bookable:  resp.Bookable,
		Total:     resp.Total,
		MinNights: resp.MinNights,
		Days:      make([]DayResponse, 0, len(resp.Days)),
	}
	for _, d := range resp.Days {
		out.Days = append(out.Days, DayResponse{
			Date:      d.Date.Format(domain.DateFormat),
			Available: d.Available,
			Price:     d.Price,
			MinNights: d.MinNights,
			Reason:    d.Reason,
		})
	}
	return out
}
