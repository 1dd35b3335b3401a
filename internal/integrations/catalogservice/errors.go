package catalogservice

import "errors"

var (
	// ErrRoomNotFound возвращается, когда номер не найден в каталоге
	ErrRoomNotFound = errors.New("catalogservice: room not found")

	// ErrCompanyNotFound возвращается, когда компания не найдена в каталоге
	ErrCompanyNotFound = errors.New("catalogservice: company not found")

	// ErrServiceUnavailable возвращается, когда circuit breaker разомкнут
	ErrServiceUnavailable = errors.New("catalogservice: service unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
