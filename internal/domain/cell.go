package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AvailabilityCell материализованное состояние номера на дату
// Уникальный ключ (room_id, date)
// Инвариант: IsAvailable == false, если дата заблокирована, занята бронированием или закрыта правилом
type AvailabilityCell struct {
	RoomID         int64
	CompanyID      int64
	Date           time.Time
	IsAvailable    bool
	IsBlocked      bool
	BlockReason    *string
	CustomPrice    *decimal.Decimal
	MinNights      *int
	ReservationID  *int64
	ConflictReason *string // бронирование пересекается с более поздним правилом или блокировкой
	UpdatedAt      time.Time
}

// IsClaimed возвращает true, если дата занята бронированием
func (c *AvailabilityCell) IsClaimed() bool {
	return c.ReservationID != nil
}

// NightlyPrice цена ночи: цена из правила или базовая цена номера
func (c *AvailabilityCell) NightlyPrice(base decimal.Decimal) decimal.Decimal {
	if c.CustomPrice != nil {
		return *c.CustomPrice
	}
	return base
}

// RequiredNights минимальный срок проживания для заезда в эту дату (0 = без ограничения)
func (c *AvailabilityCell) RequiredNights() int {
	if c.MinNights == nil {
		return 0
	}
	return *c.MinNights
}

// Normalize восстанавливает инвариант доступности
func (c *AvailabilityCell) Normalize() {
	if c.IsBlocked || c.IsClaimed() {
		c.IsAvailable = false
	}
}

// UnavailableReason причина недоступности даты или пустая строка
func (c *AvailabilityCell) UnavailableReason() string {
	switch {
	case c.IsClaimed():
		return UnavailableReserved
	case c.IsBlocked:
		return UnavailableBlocked
	case !c.IsAvailable:
		return UnavailableRule
	default:
		return ""
	}
}
