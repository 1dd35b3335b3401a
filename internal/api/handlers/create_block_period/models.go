package create_block_period

import (
	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/blocks/models"
)

// CreateBlockPeriodRequest HTTP request model
// Без roomId блокировка действует на все номера компании
type CreateBlockPeriodRequest struct {
	RoomID            *int64  `json:"roomId,omitempty" validate:"omitempty,gt=0"`
	StartDate         string  `json:"startDate" validate:"required"` // "2025-12-24"
	EndDate           string  `json:"endDate" validate:"required"`   // включительно
	Reason            string  `json:"reason" validate:"required,max=255"`
	IsRecurring       bool    `json:"isRecurring"`
	RecurrencePattern *string `json:"recurrencePattern,omitempty" validate:"omitempty,oneof=weekly monthly"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBlockPeriodRequest) ToServiceRequest(companyID, userID int64) (*models.CreateBlockRequest, error) {
	start, err := handlers.ParseDate("startDate", r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseDate("endDate", r.EndDate)
	if err != nil {
		return nil, err
	}

	return &models.CreateBlockRequest{
		CompanyID:         companyID,
		RoomID:            r.RoomID,
		StartDate:         start,
		EndDate:           end,
		Reason:            r.Reason,
		IsRecurring:       r.IsRecurring,
		RecurrencePattern: r.RecurrencePattern,
		CreatedBy:         &userID,
	}, nil
}
