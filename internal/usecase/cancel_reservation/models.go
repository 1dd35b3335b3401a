package cancel_reservation

// Request модель запроса на отмену бронирования
type Request struct {
	CompanyID     int64   // ID компании вызывающего
	ReservationID int64   // ID бронирования
	Reason        *string // Причина отмены (опционально)
}
