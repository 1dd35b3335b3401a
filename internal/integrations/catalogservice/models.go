package catalogservice

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Room модель номера из сервиса каталога
type Room struct {
	ID           int64           `json:"id"`
	CompanyID    int64           `json:"company_id"`
	Name         string          `json:"name"`
	BasePrice    decimal.Decimal `json:"base_price"`
	MaxOccupancy int             `json:"max_occupancy"`
}

// ToDomain конвертирует модель каталога в доменный номер
func (r *Room) ToDomain() *domain.Room {
	return &domain.Room{
		ID:           r.ID,
		CompanyID:    r.CompanyID,
		Name:         r.Name,
		BasePrice:    r.BasePrice,
		MaxOccupancy: r.MaxOccupancy,
	}
}

// ErrorResponse модель ошибки от сервиса каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
