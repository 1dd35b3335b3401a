package deactivate_rule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

const (
	msgInvalidRuleID   = "некорректный ID правила"
	msgMissingIdentity = "отсутствует ID пользователя или компании"
	msgNotFound        = "правило не найдено"
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

// Handle DELETE /api/v1/rules/{ruleId}
// Правило не удаляется, а выключается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ruleID, err := handlers.PathInt64(r, "ruleId")
	if err != nil {
		h.logger.Warn("DELETE /rules/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("DELETE /rules/{id} - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	if err := h.service.Deactivate(r.Context(), companyID, ruleID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("DELETE /rules/{id} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /rules/{id} - Failed to deactivate rule: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /rules/{id} - Rule deactivated successfully: rule_id=%d, company_id=%d", ruleID, companyID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
