package domain

import (
	"errors"
	"fmt"
	"time"
)

// Категории ошибок ядра бронирования
// Проверяются через errors.Is, типизированные ошибки ниже разворачиваются в эти значения
var (
	// ErrValidation некорректный или невозможный запрос, повтор не поможет
	ErrValidation = errors.New("validation error")

	// ErrRoomUnavailable одна или несколько дат недоступны, клиенту стоит предложить другие даты
	ErrRoomUnavailable = errors.New("room unavailable")

	// ErrConflict запрос проиграл гонку за те же даты, можно повторить после повторного чтения доступности
	ErrConflict = errors.New("booking conflict")

	// ErrNotFound неизвестный номер, бронирование, правило или блокировка
	ErrNotFound = errors.New("not found")

	// ErrRuleEvaluation правило с некорректными данными, пропускается при вычислении
	ErrRuleEvaluation = errors.New("rule evaluation error")

	// ErrInvalidTransition недопустимый переход состояния бронирования
	ErrInvalidTransition = errors.New("invalid reservation status transition")
)

// ValidationError ошибка валидации с указанием поля
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Причины недоступности даты
const (
	UnavailableReserved = "reserved"
	UnavailableBlocked  = "blocked"
	UnavailableRule     = "rule"
	UnavailableMinStay  = "min_stay"
)

// RoomUnavailableError дата, которую нельзя забронировать
type RoomUnavailableError struct {
	RoomID        int64
	Date          time.Time
	Reason        string
	Detail        string
	ReservationID *int64 // бронирование, удерживающее дату (если известно)
}

func (e *RoomUnavailableError) Error() string {
	msg := fmt.Sprintf("%s: room=%d date=%s reason=%s", ErrRoomUnavailable, e.RoomID, e.Date.Format(DateFormat), e.Reason)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.ReservationID != nil {
		msg += fmt.Sprintf(" reservation=%d", *e.ReservationID)
	}
	return msg
}

func (e *RoomUnavailableError) Unwrap() error {
	return ErrRoomUnavailable
}

// MinStayError запрошено меньше ночей, чем минимальный срок проживания для даты заезда
// Это одновременно ошибка валидации и недоступность номера
type MinStayError struct {
	RoomID    int64
	Date      time.Time
	MinNights int
	Nights    int
}

func (e *MinStayError) Error() string {
	return fmt.Sprintf("%s: room=%d check-in %s requires at least %d nights, requested %d",
		ErrValidation, e.RoomID, e.Date.Format(DateFormat), e.MinNights, e.Nights)
}

func (e *MinStayError) Unwrap() []error {
	return []error{ErrValidation, ErrRoomUnavailable}
}

// ConflictError конкурентное бронирование тех же дат
type ConflictError struct {
	RoomID        int64
	Date          *time.Time
	ReservationID *int64
	Cause         error
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s: room=%d", ErrConflict, e.RoomID)
	if e.Date != nil {
		msg += " date=" + e.Date.Format(DateFormat)
	}
	if e.ReservationID != nil {
		msg += fmt.Sprintf(" reservation=%d", *e.ReservationID)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NotFoundError сущность не найдена
type NotFoundError struct {
	Entity string
	ID     int64
}

func NewNotFoundError(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d %s", e.Entity, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// RuleEvaluationError правило не удалось разобрать, оно пропущено
type RuleEvaluationError struct {
	RuleID int64
	Type   RuleType
	Cause  error
}

func (e *RuleEvaluationError) Error() string {
	return fmt.Sprintf("%s: rule=%d type=%s: %v", ErrRuleEvaluation, e.RuleID, e.Type, e.Cause)
}

func (e *RuleEvaluationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrRuleEvaluation}
	}
	return []error{ErrRuleEvaluation, e.Cause}
}

// TransitionError недопустимый переход статуса
type TransitionError struct {
	ReservationID int64
	From          ReservationStatus
	To            ReservationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: reservation=%d %s -> %s", ErrInvalidTransition, e.ReservationID, e.From, e.To)
}

func (e *TransitionError) Unwrap() []error {
	return []error{ErrInvalidTransition, ErrValidation}
}
