package list_rules

import (
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rules/models"
)

const (
	msgInvalidFilter   = "некорректный фильтр, ожидаются roomId и includeInactive"
	msgMissingIdentity = "отсутствует ID пользователя или компании"
)

// RuleListResponse HTTP response model
type RuleListResponse struct {
	Rules []*models.RuleResponse `json:"rules"`
}

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

// Handle GET /api/v1/rules?roomId=&includeInactive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /rules - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	roomID, err := handlers.QueryOptionalInt64(r, "roomId")
	if err != nil {
		h.logger.Warn("GET /rules - Invalid roomId: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}
	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		h.logger.Warn("GET /rules - Invalid includeInactive: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	list, err := h.service.List(r.Context(), &models.ListRulesRequest{
		CompanyID:       companyID,
		RoomID:          roomID,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		h.logger.Error("GET /rules - Failed to list rules: company_id=%d, error=%v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /rules - Rules retrieved successfully: company_id=%d, count=%d", companyID, len(list))
	handlers.RespondJSON(w, http.StatusOK, RuleListResponse{Rules: models.FromDomainRuleList(list)})
}
