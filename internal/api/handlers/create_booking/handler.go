package create_booking

import (
	"errors"
	"net/http"

	"github.com/mentorhub/MH-BookingEngine/internal/api/handlers"
	"github.com/mentorhub/MH-BookingEngine/internal/api/middleware"
	createBooking "github.com/mentorhub/MH-BookingEngine/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidStart        = "некорректный формат scheduledStart, ожидается RFC3339"
	msgUnauthorized        = "требуется аутентификация"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgDuplicateBooking    = "у вас уже есть активное бронирование этой услуги"
	msgServiceNotFound     = "услуга не найдена"
	msgMentorNotFound      = "ментор не найден"
	msgServiceInactive     = "услуга недоступна для бронирования"
	msgLeadTimeViolation   = "до начала сессии осталось меньше минимального срока"
	msgDateTooFar          = "дата бронирования слишком далеко в будущем"
	msgOutsideAvailability = "выбранное время вне расписания ментора"
	msgInvalidInput        = "некорректные входные данные"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	studentID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(studentID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: student_id=%d, mentor_id=%d", studentID, req.MentorID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: student_id=%d, service_id=%d", studentID, req.ServiceID)
			handlers.RespondConflict(w, msgDuplicateBooking)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrMentorNotFound):
			h.logger.Warn("POST /bookings - Mentor not found: mentor_id=%d", req.MentorID)
			handlers.RespondNotFound(w, msgMentorNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createBooking.ErrLeadTimeViolation):
			h.logger.Warn("POST /bookings - Lead time violation: student_id=%d", studentID)
			handlers.RespondBadRequest(w, msgLeadTimeViolation)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: student_id=%d", studentID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrOutsideAvailability):
			h.logger.Warn("POST /bookings - Outside availability: student_id=%d, mentor_id=%d", studentID, req.MentorID)
			handlers.RespondBadRequest(w, msgOutsideAvailability)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: student_id=%d: %v", studentID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: student_id=%d, error=%v", studentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, student_id=%d", result.ID, studentID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
