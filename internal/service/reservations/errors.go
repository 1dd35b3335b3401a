package reservations

import "errors"

var (
	// ErrUseCancel возвращается при попытке отменить бронирование через смену статуса
	ErrUseCancel = errors.New("reservations: cancellation must go through the cancel operation")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations: internal error")
)
