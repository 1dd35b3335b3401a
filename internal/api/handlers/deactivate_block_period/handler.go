package deactivate_block_period

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

const (
	msgInvalidBlockID  = "некорректный ID блокировки"
	msgMissingIdentity = "отсутствует ID пользователя или компании"
	msgNotFound        = "блокировка не найдена"
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

// Handle DELETE /api/v1/block-periods/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	blockID, err := handlers.PathInt64(r, "blockId")
	if err != nil {
		h.logger.Warn("DELETE /block-periods/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("DELETE /block-periods/{id} - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	if err := h.service.Deactivate(r.Context(), companyID, blockID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("DELETE /block-periods/{id} - Block not found: block_id=%d", blockID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /block-periods/{id} - Failed to deactivate block: block_id=%d, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /block-periods/{id} - Block deactivated successfully: block_id=%d, company_id=%d", blockID, companyID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
