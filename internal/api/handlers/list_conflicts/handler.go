package list_conflicts

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

const (
	msgInvalidRoomID   = "некорректный ID номера"
	msgMissingIdentity = "отсутствует ID пользователя или компании"
	msgRoomNotFound    = "номер не найден"
)

type Handler struct {
	calendar Calendar
	logger   Logger
}

func NewHandler(calendar Calendar, logger Logger) *Handler {
	return &Handler{
		calendar: calendar,
		logger:   logger,
	}
}

// Handle GET /api/v1/rooms/{roomId}/availability/conflicts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := handlers.PathInt64(r, "roomId")
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/availability/conflicts - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /rooms/{id}/availability/conflicts - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	room, err := h.calendar.GetRoom(r.Context(), roomID)
	if err == nil && room.CompanyID != companyID {
		err = domain.NewNotFoundError("room", roomID)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /rooms/{id}/availability/conflicts - Room not found: room_id=%d", roomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		default:
			h.logger.Error("GET /rooms/{id}/availability/conflicts - Failed to get room: room_id=%d, error=%v", roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	cells, err := h.calendar.ListConflicts(r.Context(), roomID)
	if err != nil {
		h.logger.Error("GET /rooms/{id}/availability/conflicts - Failed to list conflicts: room_id=%d, error=%v", roomID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /rooms/{id}/availability/conflicts - Conflicts retrieved: room_id=%d, count=%d", roomID, len(cells))
	handlers.RespondJSON(w, http.StatusOK, FromDomainCells(roomID, cells))
}
