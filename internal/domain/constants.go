package domain

// Значения по умолчанию
const (
	DefaultHorizonDays     = 365 // горизонт разворачивания повторяющихся блокировок и пересчёта календаря
	DefaultMaxNights       = 365
	DefaultLockTimeoutSecs = 5
)

// Ограничения бизнес-валидации
const (
	MinRulePriority           = -1000
	MaxRulePriority           = 1000
	MaxMinStayNights          = 365
	MaxBlockReasonLength      = 255
	MaxNotesLength            = 500
	MaxCancellationReasonSize = 500
)

// DateFormat формат календарной даты в API и логах
const DateFormat = "2006-01-02"

// LiveStatuses статусы, при которых бронирование удерживает даты в календаре
// Используется при поиске пересекающихся бронирований
var LiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCheckedIn,
}

// OccupyingStatuses статусы, для которых пересечения строго запрещены
var OccupyingStatuses = []ReservationStatus{
	StatusConfirmed,
	StatusCheckedIn,
}
