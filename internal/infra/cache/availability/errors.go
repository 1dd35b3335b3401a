package availability

import "errors"

var (
	// ErrRead возвращается при ошибке чтения из Redis
	ErrRead = errors.New("availability.cache: failed to read")

	// ErrWrite возвращается при ошибке записи в Redis
	ErrWrite = errors.New("availability.cache: failed to write")

	// ErrDecode возвращается, если закэшированное значение не разбирается
	ErrDecode = errors.New("availability.cache: failed to decode entry")
)
