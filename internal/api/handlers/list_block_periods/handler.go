package list_block_periods

import (
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/blocks/models"
)

const (
	msgInvalidFilter   = "некорректный фильтр, ожидаются roomId и includeInactive"
	msgMissingIdentity = "отсутствует ID пользователя или компании"
)

// BlockListResponse HTTP response model
type BlockListResponse struct {
	BlockPeriods []*models.BlockResponse `json:"blockPeriods"`
}

type Handler struct {
	service BlockService
	logger  Logger
}

func NewHandler(service BlockService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/block-periods?roomId=&includeInactive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /block-periods - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	roomID, err := handlers.QueryOptionalInt64(r, "roomId")
	if err != nil {
		h.logger.Warn("GET /block-periods - Invalid roomId: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}
	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		h.logger.Warn("GET /block-periods - Invalid includeInactive: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	list, err := h.service.List(r.Context(), &models.ListBlocksRequest{
		CompanyID:       companyID,
		RoomID:          roomID,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		h.logger.Error("GET /block-periods - Failed to list blocks: company_id=%d, error=%v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /block-periods - Blocks retrieved successfully: company_id=%d, count=%d", companyID, len(list))
	handlers.RespondJSON(w, http.StatusOK, BlockListResponse{BlockPeriods: models.FromDomainBlockList(list)})
}
