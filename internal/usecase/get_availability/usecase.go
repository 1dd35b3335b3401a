package get_availability

import (
	"context"

	"github.com/shopspring/decimal"
)

// UseCase use case для публичного чтения доступности номера
type UseCase struct {
	calendar Calendar
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(calendar Calendar, logger Logger) *UseCase {
	return &UseCase{
		calendar: calendar,
		logger:   logger,
	}
}

// Execute возвращает доступность номера на каждую ночь периода [From, To)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	dates, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	days, err := uc.calendar.GetAvailability(ctx, req.RoomID, dates)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		RoomID:   req.RoomID,
		From:     dates.Start,
		To:       dates.End,
		Days:     days,
		Bookable: len(days) > 0,
	}

	total := decimal.Zero
	for _, d := range days {
		if !d.Available {
			resp.Bookable = false
		}
		total = total.Add(d.Price)
	}
	if len(days) > 0 && days[0].MinNights != nil {
		resp.MinNights = days[0].MinNights
		if *days[0].MinNights > dates.Nights() {
			resp.Bookable = false
		}
	}
	if resp.Bookable {
		resp.Total = &total
	}

	uc.logger.Info("GetAvailability: room=%d range=%s bookable=%t", req.RoomID, dates, resp.Bookable)
	return resp, nil
}
