package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

var (
	// ErrEmptyBody тело запроса отсутствует
	ErrEmptyBody = errors.New("request body is empty")
	// ErrInvalidParam параметр пути или запроса не разобран
	ErrInvalidParam = errors.New("invalid parameter")
)

var validate = validator.New()

// DecodeJSON декодирует тело запроса и проверяет теги validate
// Неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validate body: %s", describeValidation(err))
	}
	return nil
}

// describeValidation собирает ошибки валидатора в одну строку "field:tag"
func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fe.Field()+":"+fe.Tag())
	}
	return strings.Join(parts, ", ")
}

// PathInt64 положительный ID из переменной пути
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return id, nil
}

// QueryDate обязательная дата YYYY-MM-DD из строки запроса
func QueryDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrInvalidParam, name)
	}
	return ParseDate(name, raw)
}

// QueryOptionalDate дата из строки запроса, nil если параметр не передан
func QueryOptionalDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := ParseDate(name, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseDate разбирает дату YYYY-MM-DD
func ParseDate(name, raw string) (time.Time, error) {
	d, err := types.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return d, nil
}

// ParseOptionalDate разбирает необязательную дату из тела запроса
func ParseOptionalDate(name string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := ParseDate(name, *raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// QueryBool флаг из строки запроса, пустое значение = false
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return v, nil
}

// QueryOptionalInt64 ID из строки запроса, nil если параметр не передан
func QueryOptionalInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return &v, nil
}
