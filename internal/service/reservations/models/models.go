package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Request модели

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	CompanyID     int64  `json:"companyId"`
	ReservationID int64  `json:"reservationId"`
	Status        string `json:"status"`
}

// ListByRoomRequest запрос бронирований номера
type ListByRoomRequest struct {
	CompanyID int64
	RoomID    int64
	From      *time.Time // вместе с To ограничивает пересекающиеся бронирования
	To        *time.Time
	Statuses  []string
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID                 int64           `json:"id"`
	CompanyID          int64           `json:"companyId"`
	CustomerID         int64           `json:"customerId"`
	RoomID             int64           `json:"roomId"`
	CheckInDate        string          `json:"checkInDate"`  // "2025-06-01"
	CheckOutDate       string          `json:"checkOutDate"` // "2025-06-04"
	NumberOfGuests     int             `json:"numberOfGuests"`
	NumberOfNights     int             `json:"numberOfNights"`
	Status             string          `json:"status"`
	RoomRate           decimal.Decimal `json:"roomRate"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	Notes              *string         `json:"notes,omitempty"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	CancelledAt        *string         `json:"cancelledAt,omitempty"` // ISO 8601
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                 r.ID,
		CompanyID:          r.CompanyID,
		CustomerID:         r.CustomerID,
		RoomID:             r.RoomID,
		CheckInDate:        r.CheckInDate.Format(domain.DateFormat),
		CheckOutDate:       r.CheckOutDate.Format(domain.DateFormat),
		NumberOfGuests:     r.NumberOfGuests,
		NumberOfNights:     r.NumberOfNights,
		Status:             string(r.Status),
		RoomRate:           r.RoomRate,
		TotalAmount:        r.TotalAmount,
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	if r.CancelledAt != nil {
		cancelled := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(list)),
	}
	for _, r := range list {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}
	return resp
}

// ToDomainStatus конвертирует строку в статус с валидацией
func ToDomainStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", domain.NewValidationError("status", "unknown status %q", status)
	}
	return s, nil
}
