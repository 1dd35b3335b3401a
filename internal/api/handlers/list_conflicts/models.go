package list_conflicts

import (
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// ConflictCellResponse занятая дата, требующая ручной проверки
type ConflictCellResponse struct {
	Date           string  `json:"date"`
	ReservationID  *int64  `json:"reservationId,omitempty"`
	ConflictReason *string `json:"conflictReason,omitempty"`
	IsBlocked      bool    `json:"isBlocked"`
	BlockReason    *string `json:"blockReason,omitempty"`
}

// ConflictListResponse HTTP response model
type ConflictListResponse struct {
	RoomID    int64                  `json:"roomId"`
	Conflicts []ConflictCellResponse `json:"conflicts"`
}

// FromDomainCells конвертирует ячейки в HTTP response
func FromDomainCells(roomID int64, cells []*domain.AvailabilityCell) *ConflictListResponse {
	resp := &ConflictListResponse{RoomID: roomID, Conflicts: make([]ConflictCellResponse, 0, len(cells))}
	for _, c := range cells {
		resp.Conflicts = append(resp.Conflicts, ConflictCellResponse{
			Date:           c.Date.Format(domain.DateFormat),
			ReservationID:  c.ReservationID,
			ConflictReason: c.ConflictReason,
			IsBlocked:      c.IsBlocked,
			BlockReason:    c.BlockReason,
		})
	}
	return resp
}
