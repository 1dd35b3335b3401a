package get_availability

import (
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-RoomReservationService/internal/usecase/get_availability"
)

const (
	msgInvalidRoomID = "некорректный ID номера"
	msgInvalidDates  = "некорректный период, ожидаются параметры from и to в формате YYYY-MM-DD"
	msgRoomNotFound  = "номер не найден"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/rooms/{roomId}/availability?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := handlers.PathInt64(r, "roomId")
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/availability - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/availability - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/availability - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		RoomID: roomID,
		From:   from,
		To:     to,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err, handlers.Messages{
			Validation: msgInvalidDates,
			NotFound:   msgRoomNotFound,
		}) {
			h.logger.Warn("GET /rooms/{id}/availability - Rejected: room_id=%d, error=%v", roomID, err)
			return
		}
		h.logger.Error("GET /rooms/{id}/availability - Failed to read availability: room_id=%d, error=%v", roomID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /rooms/{id}/availability - Availability returned: room_id=%d, nights=%d, bookable=%t",
		roomID, len(result.Days), result.Bookable)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
