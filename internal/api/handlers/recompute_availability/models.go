package recompute_availability

import (
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/calendar"
)

// RecomputeRequest HTTP request model
// Без from/to пересчитывается весь горизонт календаря
type RecomputeRequest struct {
	From *string `json:"from,omitempty"` // "2025-06-01"
	To   *string `json:"to,omitempty"`   // не включается
}

// ConflictResponse занятая дата, которую текущие правила закрыли бы
type ConflictResponse struct {
	Date          string `json:"date"`
	ReservationID int64  `json:"reservationId"`
	Reason        string `json:"reason"`
}

// RecomputeResponse HTTP response model
type RecomputeResponse struct {
	RoomID    int64              `json:"roomId"`
	From      string             `json:"from"`
	To        string             `json:"to"`
	Updated   int                `json:"updated"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

// FromRecomputeResult конвертирует итог пересчёта в HTTP response
func FromRecomputeResult(res *calendar.RecomputeResult) *RecomputeResponse {
	out := &RecomputeResponse{
		RoomID:    res.RoomID,
		From:      res.Range.Start.Format(domain.DateFormat),
		To:        res.Range.End.Format(domain.DateFormat),
		Updated:   res.Updated,
		Conflicts: make([]ConflictResponse, 0, len(res.Conflicts)),
	}
	for _, c := range res.Conflicts {
		out.Conflicts = append(out.Conflicts, ConflictResponse{
			Date:          c.Date.Format(domain.DateFormat),
			ReservationID: c.ReservationID,
			Reason:        c.Reason,
		})
	}
	return out
}
