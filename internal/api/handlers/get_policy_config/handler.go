package get_policy_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mentorhub/MH-BookingEngine/internal/api/handlers"
	"github.com/mentorhub/MH-BookingEngine/internal/api/middleware"
	"github.com/mentorhub/MH-BookingEngine/internal/service/policycfg"
)

const (
	msgInvalidMentorID = "некорректный ID ментора"
	msgUnauthorized    = "требуется аутентификация"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/mentors/{mentorId}/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	mentorID, err := strconv.ParseInt(vars["mentorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /mentors/{id}/policy - Invalid mentor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	result, err := h.service.GetByMentor(r.Context(), mentorID, actorID, middleware.GetUserRole(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, policycfg.ErrAccessDenied):
			h.logger.Warn("GET /mentors/{id}/policy - Access denied: mentor_id=%d, actor_id=%d", mentorID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /mentors/{id}/policy - Failed to get overrides: mentor_id=%d, error=%v", mentorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /mentors/{id}/policy - Returned %d overrides: mentor_id=%d", len(result.Overrides), mentorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
