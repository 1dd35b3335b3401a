package cancel_reservation

import (
	cancelReservation "github.com/m04kA/SMC-RoomReservationService/internal/usecase/cancel_reservation"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelReservationRequest) ToUseCaseRequest(companyID, reservationID int64) *cancelReservation.Request {
	return &cancelReservation.Request{
		CompanyID:     companyID,
		ReservationID: reservationID,
		Reason:        r.CancellationReason,
	}
}
