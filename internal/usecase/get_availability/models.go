package get_availability

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/service/calendar"
)

// Request модель запроса доступности номера
type Request struct {
	RoomID int64
	From   time.Time // Первая ночь (включительно)
	To     time.Time // Дата выезда (не включается)
}

// Response доступность по дням и итог для бронирования всего периода
type Response struct {
	RoomID    int64
	From      time.Time
	To        time.Time
	Days      []calendar.Day
	Bookable  bool             // все ночи свободны и минимальный срок соблюдён
	Total     *decimal.Decimal // стоимость периода, если он бронируемый
	MinNights *int             // минимальный срок проживания для заезда в From
}
