package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mentorhub/MH-BookingEngine/internal/api/handlers"
	"github.com/mentorhub/MH-BookingEngine/internal/api/middleware"
	rescheduleBooking "github.com/mentorhub/MH-BookingEngine/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID    = "некорректный ID бронирования"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidNewStart     = "некорректный формат newStart, ожидается RFC3339"
	msgUnauthorized        = "требуется аутентификация"
	msgNotFound            = "бронирование не найдено"
	msgForbidden           = "доступ запрещен"
	msgInvalidState        = "бронирование нельзя перенести в текущем статусе"
	msgRescheduleLimit     = "лимит переносов исчерпан"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgLeadTimeViolation   = "до начала сессии осталось меньше минимального срока"
	msgDateTooFar          = "новая дата слишком далеко в будущем"
	msgOutsideAvailability = "выбранное время вне расписания ментора"
	msgServiceNotFound     = "услуга не найдена"
	msgInvalidInput        = "некорректные входные данные"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, actorID, middleware.GetUserRole(r.Context()))
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidNewStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/reschedule - Access denied: booking_id=%d, actor_id=%d", bookingID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleBooking.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/reschedule - Invalid state: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings/{id}/reschedule - Slot not available: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, rescheduleBooking.ErrRescheduleLimitExceeded):
			h.logger.Warn("POST /bookings/{id}/reschedule - Limit exceeded: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgRescheduleLimit)

		case errors.Is(err, rescheduleBooking.ErrLeadTimeViolation):
			h.logger.Warn("POST /bookings/{id}/reschedule - Lead time violation: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgLeadTimeViolation)

		case errors.Is(err, rescheduleBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings/{id}/reschedule - Date too far in future: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, rescheduleBooking.ErrOutsideAvailability):
			h.logger.Warn("POST /bookings/{id}/reschedule - Outside availability: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgOutsideAvailability)

		case errors.Is(err, rescheduleBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings/{id}/reschedule - Service not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/reschedule - Invalid input: booking_id=%d: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{id}/reschedule - Failed to reschedule: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/reschedule - Booking rescheduled: old_id=%d, new_id=%d, actor_id=%d",
		bookingID, result.ID, actorID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
