package create_block_period

import (
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/blocks/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingIdentity    = "отсутствует ID пользователя или компании"
	msgInvalidBlock       = "некорректный период блокировки"
	msgRoomNotFound       = "номер не найден"
)

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

// Handle POST /api/v1/block-periods
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /block-periods - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req CreateBlockPeriodRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /block-periods - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(companyID, userID)
	if err != nil {
		h.logger.Warn("POST /block-periods - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	block, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		if handlers.RespondDomainError(w, err, handlers.Messages{
			Validation: msgInvalidBlock,
			NotFound:   msgRoomNotFound,
		}) {
			h.logger.Warn("POST /block-periods - Rejected: company_id=%d, error=%v", companyID, err)
			return
		}
		h.logger.Error("POST /block-periods - Failed to create block: company_id=%d, error=%v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /block-periods - Block created successfully: block_id=%d, company_id=%d, %s..%s",
		block.ID, companyID, req.StartDate, req.EndDate)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBlock(block))
}
