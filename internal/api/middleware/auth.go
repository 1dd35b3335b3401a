package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderCompanyID = "X-Company-ID"

	msgMissingUserID    = "отсутствует или некорректен заголовок X-User-ID"
	msgMissingCompanyID = "отсутствует или некорректен заголовок X-Company-ID"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	companyIDKey contextKey = "company_id"
)

// Auth читает ID сотрудника и компании из заголовков, выставленных шлюзом
// Запросы без них отклоняются с 401
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		companyID, err := strconv.ParseInt(r.Header.Get(HeaderCompanyID), 10, 64)
		if err != nil || companyID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingCompanyID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, companyIDKey, companyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID ID сотрудника из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// GetCompanyID ID компании вызывающего из контекста
func GetCompanyID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(companyIDKey).(int64)
	return id, ok
}

// WithIdentity кладёт ID сотрудника и компании в контекст (для тестов обработчиков)
func WithIdentity(ctx context.Context, userID, companyID int64) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, companyIDKey, companyID)
}

// GetIdentity ID сотрудника и компании из контекста
func GetIdentity(ctx context.Context) (userID, companyID int64, ok bool) {
	userID, okUser := GetUserID(ctx)
	companyID, okCompany := GetCompanyID(ctx)
	return userID, companyID, okUser && okCompany
}
