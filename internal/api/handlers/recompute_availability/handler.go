package recompute_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

const (
	msgInvalidRoomID      = "некорректный ID номера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDates       = "некорректный период, ожидаются from < to в формате YYYY-MM-DD"
	msgMissingIdentity    = "отсутствует ID пользователя или компании"
	msgRoomNotFound       = "номер не найден"
	msgConflict           = "номер изменяется параллельно, повторите запрос"
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

// Handle POST /api/v1/rooms/{roomId}/availability/recompute
// Синхронный пересчёт для оператора, возвращает найденные конфликты с бронированиями
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := handlers.PathInt64(r, "roomId")
	if err != nil {
		h.logger.Warn("POST /rooms/{id}/availability/recompute - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	_, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /rooms/{id}/availability/recompute - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req RecomputeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /rooms/{id}/availability/recompute - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	dates, err := h.dates(&req)
	if err != nil {
		h.logger.Warn("POST /rooms/{id}/availability/recompute - Invalid range: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	// Номер другой компании не виден
	room, err := h.calendar.GetRoom(r.Context(), roomID)
	if err != nil {
		h.respondError(w, roomID, err)
		return
	}
	if room.CompanyID != companyID {
		h.logger.Warn("POST /rooms/{id}/availability/recompute - Room id=%d belongs to another company", roomID)
		handlers.RespondNotFound(w, msgRoomNotFound)
		return
	}

	result, err := h.calendar.Recompute(r.Context(), roomID, dates)
	if err != nil {
		h.respondError(w, roomID, err)
		return
	}

	h.logger.Info("POST /rooms/{id}/availability/recompute - Recompute finished: room_id=%d, range=%s", roomID, dates)
	handlers.RespondJSON(w, http.StatusOK, FromRecomputeResult(result))
}

func (h *Handler) respondError(w http.ResponseWriter, roomID int64, err error) {
	if handlers.RespondDomainError(w, err, handlers.Messages{
		Validation: msgInvalidDates,
		NotFound:   msgRoomNotFound,
		Conflict:   msgConflict,
	}) {
		h.logger.Warn("POST /rooms/{id}/availability/recompute - Rejected: room_id=%d, error=%v", roomID, err)
		return
	}
	h.logger.Error("POST /rooms/{id}/availability/recompute - Failed to recompute: room_id=%d, error=%v", roomID, err)
	handlers.RespondInternalError(w)
}

func (h *Handler) dates(req *RecomputeRequest) (types.DateRange, error) {
	horizon := h.calendar.Horizon()
	if req.From == nil && req.To == nil {
		return horizon, nil
	}

	from, to := horizon.Start, horizon.End
	if req.From != nil {
		d, err := handlers.ParseDate("from", *req.From)
		if err != nil {
			return types.DateRange{}, err
		}
		from = d
	}
	if req.To != nil {
		d, err := handlers.ParseDate("to", *req.To)
		if err != nil {
			return types.DateRange{}, err
		}
		to = d
	}
	return types.NewDateRange(from, to)
}
