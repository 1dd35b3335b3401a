package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// validateRequest проверяет входные данные без обращения к внешним сервисам
// Выезд не позже конца горизонта календаря: дальше повторяющиеся блокировки не развернуты
func validateRequest(req *Request, now time.Time, maxNights, horizonDays int) (types.DateRange, error) {
	if req.CompanyID <= 0 {
		return types.DateRange{}, domain.NewValidationError("company_id", "must be positive")
	}
	if req.CustomerID <= 0 {
		return types.DateRange{}, domain.NewValidationError("customer_id", "must be positive")
	}
	if req.RoomID <= 0 {
		return types.DateRange{}, domain.NewValidationError("room_id", "must be positive")
	}
	if req.CheckInDate.IsZero() || req.CheckOutDate.IsZero() {
		return types.DateRange{}, domain.NewValidationError("check_in_date", "check-in and check-out dates are required")
	}

	dates, err := types.NewDateRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return types.DateRange{}, domain.NewValidationError("check_out_date", "must be after check_in_date")
	}
	if dates.Start.Before(types.Date(now)) {
		return types.DateRange{}, domain.NewValidationError("check_in_date", "must not be in the past")
	}
	if horizonEnd := types.Date(now).AddDate(0, 0, horizonDays); dates.End.After(horizonEnd) {
		return types.DateRange{}, domain.NewValidationError("check_out_date", "must not be after %s", horizonEnd.Format(domain.DateFormat))
	}
	if dates.Nights() > maxNights {
		return types.DateRange{}, domain.NewValidationError("check_out_date", "stay must not exceed %d nights", maxNights)
	}
	if req.NumberOfGuests < 1 {
		return types.DateRange{}, domain.NewValidationError("number_of_guests", "must be at least 1")
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return types.DateRange{}, domain.NewValidationError("notes", "must be at most %d characters", domain.MaxNotesLength)
	}

	return dates, nil
}

// validateGuests проверяет вместимость номера
func validateGuests(room *domain.Room, guests int) error {
	if room.MaxOccupancy > 0 && guests > room.MaxOccupancy {
		return domain.NewValidationError("number_of_guests", "room %d accommodates at most %d guests", room.ID, room.MaxOccupancy)
	}
	return nil
}

// checkCells проверяет, что каждая ночь доступна, и минимальный срок проживания для даты заезда
func checkCells(room *domain.Room, cells []*domain.AvailabilityCell, nights int) error {
	for _, c := range cells {
		if c.IsAvailable && !c.IsClaimed() {
			continue
		}
		unavailable := &domain.RoomUnavailableError{
			RoomID: room.ID,
			Date:   c.Date,
			Reason: c.UnavailableReason(),
		}
		if c.IsClaimed() {
			unavailable.ReservationID = c.ReservationID
		}
		if c.IsBlocked && c.BlockReason != nil {
			unavailable.Detail = *c.BlockReason
		}
		return unavailable
	}

	if len(cells) > 0 {
		if minNights := cells[0].RequiredNights(); minNights > nights {
			return &domain.MinStayError{RoomID: room.ID, Date: cells[0].Date, MinNights: minNights, Nights: nights}
		}
	}

	return nil
}
