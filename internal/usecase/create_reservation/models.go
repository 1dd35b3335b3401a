package create_reservation

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	CompanyID      int64     // ID компании вызывающего
	CustomerID     int64     // ID клиента
	RoomID         int64     // ID номера
	CheckInDate    time.Time // Дата заезда (включительно)
	CheckOutDate   time.Time // Дата выезда (не включается)
	NumberOfGuests int       // Количество гостей
	Notes          *string   // Заметки (опционально)
	CreatedBy      *int64    // ID сотрудника, создавшего бронирование
}

// Config параметры бронирования
type Config struct {
	MaxNights   int           // максимальная длина бронирования в ночах
	LockTimeout time.Duration // ограничение времени транзакции бронирования
}
