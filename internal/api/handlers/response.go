package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

const msgInternalError = "внутренняя ошибка сервера"

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// UnavailableResponse тело ответа 409, когда дата недоступна
type UnavailableResponse struct {
	Error         string `json:"error"`
	Date          string `json:"date"`
	Reason        string `json:"reason"`
	Detail        string `json:"detail,omitempty"`
	ReservationID *int64 `json:"reservationId,omitempty"`
}

// MinStayResponse тело ответа 400 при нарушении минимального срока проживания
type MinStayResponse struct {
	Error     string `json:"error"`
	Date      string `json:"date"`
	MinNights int    `json:"minNights"`
	Nights    int    `json:"nights"`
}

// ConflictResponse тело ответа 409 при конкурентном бронировании
type ConflictResponse struct {
	Error     string  `json:"error"`
	Retryable bool    `json:"retryable"`
	Date      *string `json:"date,omitempty"`
}

// RespondJSON пишет ответ в формате JSON
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondValidation ответ 400 с полем из ValidationError
// Для MinStayError в ответ добавляются дата заезда и требуемое число ночей
func RespondValidation(w http.ResponseWriter, message string, err error) {
	var minStay *domain.MinStayError
	if errors.As(err, &minStay) {
		RespondJSON(w, http.StatusBadRequest, MinStayResponse{
			Error:     message,
			Date:      minStay.Date.Format(domain.DateFormat),
			MinNights: minStay.MinNights,
			Nights:    minStay.Nights,
		})
		return
	}

	resp := ErrorResponse{Error: message}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		resp.Field = validation.Field
	}
	RespondJSON(w, http.StatusBadRequest, resp)
}

// RespondUnavailable ответ 409 с первой недоступной датой и причиной
func RespondUnavailable(w http.ResponseWriter, message string, err error) {
	resp := UnavailableResponse{Error: message}
	var unavailable *domain.RoomUnavailableError
	if errors.As(err, &unavailable) {
		resp.Date = unavailable.Date.Format(domain.DateFormat)
		resp.Reason = unavailable.Reason
		resp.Detail = unavailable.Detail
		resp.ReservationID = unavailable.ReservationID
	}
	RespondJSON(w, http.StatusConflict, resp)
}

// RespondConflict ответ 409, запрос можно повторить после повторного чтения доступности
func RespondConflict(w http.ResponseWriter, message string, err error) {
	resp := ConflictResponse{Error: message, Retryable: true}
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) && conflict.Date != nil {
		date := conflict.Date.Format(domain.DateFormat)
		resp.Date = &date
	}
	RespondJSON(w, http.StatusConflict, resp)
}

// Messages тексты ответов для RespondDomainError
type Messages struct {
	Validation  string
	NotFound    string
	Unavailable string
	Conflict    string
}

// RespondDomainError отображает категорию ошибки ядра в HTTP статус
// Возвращает false для ошибок вне таксономии, их обработчик пишет как 500
func RespondDomainError(w http.ResponseWriter, err error, msgs Messages) bool {
	var minStay *domain.MinStayError
	switch {
	case errors.As(err, &minStay):
		RespondValidation(w, msgs.Validation, err)
	case errors.Is(err, domain.ErrNotFound):
		RespondNotFound(w, msgs.NotFound)
	case errors.Is(err, domain.ErrRoomUnavailable):
		RespondUnavailable(w, msgs.Unavailable, err)
	case errors.Is(err, domain.ErrConflict):
		RespondConflict(w, msgs.Conflict, err)
	case errors.Is(err, domain.ErrValidation):
		RespondValidation(w, msgs.Validation, err)
	default:
		return false
	}
	return true
}
