package delete_policy_config

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
	msgInvalidMentorID  = "некорректный ID ментора"
	msgInvalidServiceID = "некорректный параметр serviceId"
	msgUnauthorized     = "требуется аутентификация"
	msgNotFound         = "override не найден"
	msgForbidden        = "доступ запрещен"
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

// Handle DELETE /api/v1/mentors/{mentorId}/policy?serviceId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	mentorID, err := strconv.ParseInt(vars["mentorId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /mentors/{id}/policy - Invalid mentor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	var serviceID *int64
	if serviceIDStr := r.URL.Query().Get("serviceId"); serviceIDStr != "" {
		id, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("DELETE /mentors/{id}/policy - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceID = &id
	}

	err = h.service.Delete(r.Context(), mentorID, serviceID, actorID, middleware.GetUserRole(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, policycfg.ErrOverrideNotFound):
			h.logger.Warn("DELETE /mentors/{id}/policy - Override not found: mentor_id=%d", mentorID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, policycfg.ErrAccessDenied):
			h.logger.Warn("DELETE /mentors/{id}/policy - Access denied: mentor_id=%d, actor_id=%d", mentorID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /mentors/{id}/policy - Failed to delete override: mentor_id=%d, error=%v", mentorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /mentors/{id}/policy - Override deleted: mentor_id=%d, actor_id=%d", mentorID, actorID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
