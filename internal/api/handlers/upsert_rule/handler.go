package upsert_rule

import (
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rules/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingIdentity    = "отсутствует ID пользователя или компании"
	msgInvalidRule        = "некорректное правило доступности"
	msgNotFound           = "правило или номер не найден"
)

type Handler struct {
	service RuleService
	logger  Logger
}

func NewHandler(service RuleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/rules
// Пересчёт календаря выполняется в фоне, ответ не ждёт его завершения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("PUT /rules - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req UpsertRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(companyID, userID)
	if err != nil {
		h.logger.Warn("PUT /rules - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	saved, err := h.service.Upsert(r.Context(), serviceReq)
	if err != nil {
		if handlers.RespondDomainError(w, err, handlers.Messages{
			Validation: msgInvalidRule,
			NotFound:   msgNotFound,
		}) {
			h.logger.Warn("PUT /rules - Rejected: company_id=%d, type=%s, error=%v", companyID, req.RuleType, err)
			return
		}
		h.logger.Error("PUT /rules - Failed to save rule: company_id=%d, error=%v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	status := http.StatusOK
	if req.ID == nil {
		status = http.StatusCreated
	}

	h.logger.Info("PUT /rules - Rule saved successfully: rule_id=%d, company_id=%d, type=%s",
		saved.ID, companyID, saved.Type)
	handlers.RespondJSON(w, status, models.FromDomainRule(saved))
}
