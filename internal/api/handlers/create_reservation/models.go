package create_reservation

import (
	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	createReservation "github.com/m04kA/SMC-RoomReservationService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	CustomerID     int64   `json:"customerId" validate:"required,gt=0"`
	RoomID         int64   `json:"roomId" validate:"required,gt=0"`
	CheckInDate    string  `json:"checkInDate" validate:"required"`  // "2025-06-01"
	CheckOutDate   string  `json:"checkOutDate" validate:"required"` // "2025-06-04"
	NumberOfGuests int     `json:"numberOfGuests" validate:"required,gt=0"`
	Notes          *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(companyID, userID int64) (*createReservation.Request, error) {
	checkIn, err := handlers.ParseDate("checkInDate", r.CheckInDate)
	if err != nil {
		return nil, err
	}
	checkOut, err := handlers.ParseDate("checkOutDate", r.CheckOutDate)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		CompanyID:      companyID,
		CustomerID:     r.CustomerID,
		RoomID:         r.RoomID,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: r.NumberOfGuests,
		Notes:          r.Notes,
		CreatedBy:      &userID,
	}, nil
}
