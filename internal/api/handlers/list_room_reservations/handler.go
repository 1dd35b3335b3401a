package list_room_reservations

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
)

const (
	msgInvalidRoomID   = "некорректный ID номера"
	msgInvalidFilter   = "некорректный фильтр, ожидаются from/to в формате YYYY-MM-DD и status через запятую"
	msgMissingIdentity = "отсутствует ID пользователя или компании"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/rooms/{roomId}/reservations?from=&to=&status=pending,confirmed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := handlers.PathInt64(r, "roomId")
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/reservations - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /rooms/{id}/reservations - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	from, err := handlers.QueryOptionalDate(r, "from")
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/reservations - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}
	to, err := handlers.QueryOptionalDate(r, "to")
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/reservations - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	req := &models.ListByRoomRequest{CompanyID: companyID, RoomID: roomID, From: from, To: to}
	if raw := r.URL.Query().Get("status"); raw != "" {
		req.Statuses = strings.Split(raw, ",")
	}

	list, err := h.service.ListByRoom(r.Context(), req)
	if err != nil {
		if handlers.RespondDomainError(w, err, handlers.Messages{Validation: msgInvalidFilter}) {
			h.logger.Warn("GET /rooms/{id}/reservations - Rejected: room_id=%d, error=%v", roomID, err)
			return
		}
		h.logger.Error("GET /rooms/{id}/reservations - Failed to list reservations: room_id=%d, error=%v", roomID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /rooms/{id}/reservations - Reservations retrieved successfully: room_id=%d, count=%d",
		roomID, len(list))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservationList(list))
}
