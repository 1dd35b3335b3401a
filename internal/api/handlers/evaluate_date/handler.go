package evaluate_date

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

const (
	msgInvalidRoomID   = "некорректный ID номера"
	msgInvalidDate     = "некорректная дата, ожидается формат YYYY-MM-DD"
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

// Handle GET /api/v1/rooms/{roomId}/availability/evaluate?date=2025-06-01
// Показывает, какие правила действуют на дату, без чтения календаря
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := handlers.PathInt64(r, "roomId")
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/availability/evaluate - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/availability/evaluate - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /rooms/{id}/availability/evaluate - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	room, err := h.calendar.GetRoom(r.Context(), roomID)
	if err == nil && room.CompanyID != companyID {
		err = domain.NewNotFoundError("room", roomID)
	}
	if err != nil {
		h.respondError(w, roomID, err)
		return
	}

	eval, err := h.calendar.Evaluate(r.Context(), roomID, date)
	if err != nil {
		h.respondError(w, roomID, err)
		return
	}

	h.logger.Info("GET /rooms/{id}/availability/evaluate - Evaluated: room_id=%d, date=%s, available=%t",
		roomID, date.Format(domain.DateFormat), eval.IsAvailable)
	handlers.RespondJSON(w, http.StatusOK, FromEvaluation(roomID, eval))
}

func (h *Handler) respondError(w http.ResponseWriter, roomID int64, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		h.logger.Warn("GET /rooms/{id}/availability/evaluate - Room not found: room_id=%d", roomID)
		handlers.RespondNotFound(w, msgRoomNotFound)
		return
	}
	h.logger.Error("GET /rooms/{id}/availability/evaluate - Failed: room_id=%d, error=%v", roomID, err)
	handlers.RespondInternalError(w)
}
