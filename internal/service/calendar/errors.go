package calendar

import "errors"

var (
	// ErrRangeTooLong возвращается, когда запрошенный диапазон длиннее горизонта календаря или выходит за него
	ErrRangeTooLong = errors.New("calendar: date range exceeds calendar horizon")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendar: internal error")
)
