package create_reservation

import "errors"

var (
	// ErrLockTimeout возвращается, когда транзакция бронирования не уложилась в lock_timeout
	ErrLockTimeout = errors.New("create_reservation: lock timeout exceeded")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
