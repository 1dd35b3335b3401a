package create_reservation

import (
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingIdentity    = "отсутствует ID пользователя или компании"
	msgInvalidReservation = "некорректные параметры бронирования"
	msgNotFound           = "номер или клиент не найден"
	msgRoomUnavailable    = "номер недоступен на выбранные даты"
	msgConflict           = "даты только что заняты другим бронированием, обновите доступность и повторите"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, companyID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(companyID, userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	res, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondDomainError(w, err, handlers.Messages{
			Validation:  msgInvalidReservation,
			NotFound:    msgNotFound,
			Unavailable: msgRoomUnavailable,
			Conflict:    msgConflict,
		}) {
			h.logger.Warn("POST /reservations - Rejected: room_id=%d, company_id=%d, error=%v", req.RoomID, companyID, err)
			return
		}
		h.logger.Error("POST /reservations - Failed to create reservation: room_id=%d, company_id=%d, error=%v",
			req.RoomID, companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, room_id=%d, company_id=%d",
		res.ID, res.RoomID, companyID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainReservation(res))
}
