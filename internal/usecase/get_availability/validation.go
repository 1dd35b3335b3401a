package get_availability

import (
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (types.DateRange, error) {
	if req.RoomID <= 0 {
		return types.DateRange{}, domain.NewValidationError("room_id", "must be positive")
	}
	if req.From.IsZero() || req.To.IsZero() {
		return types.DateRange{}, domain.NewValidationError("from", "from and to are required")
	}

	dates, err := types.NewDateRange(req.From, req.To)
	if err != nil {
		return types.DateRange{}, domain.NewValidationError("to", "must be after from")
	}
	return dates, nil
}
