package update_policy_config

import (
	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/internal/service/policycfg/models"
)

// UpsertPolicyRequest HTTP request model
// Незаданные поля не переопределяют политику
type UpsertPolicyRequest struct {
	ServiceID *int64 `json:"serviceId,omitempty"`

	MinLeadHours             *int  `json:"minLeadHours,omitempty"`
	MaxAdvanceDays           *int  `json:"maxAdvanceDays,omitempty"`
	MaxReschedules           *int  `json:"maxReschedules,omitempty"`
	CancellationWindowHours  *int  `json:"cancellationWindowHours,omitempty"`
	LateCancelAsNoShow       *bool `json:"lateCancelAsNoShow,omitempty"`
	DuplicateCooldownMinutes *int  `json:"duplicateCooldownMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpsertPolicyRequest) ToServiceRequest(mentorID, actorID int64, role domain.Role) *models.UpsertOverrideRequest {
	return &models.UpsertOverrideRequest{
		MentorID:                 mentorID,
		ActorID:                  actorID,
		ActorRole:                role,
		ServiceID:                r.ServiceID,
		MinLeadHours:             r.MinLeadHours,
		MaxAdvanceDays:           r.MaxAdvanceDays,
		MaxReschedules:           r.MaxReschedules,
		CancellationWindowHours:  r.CancellationWindowHours,
		LateCancelAsNoShow:       r.LateCancelAsNoShow,
		DuplicateCooldownMinutes: r.DuplicateCooldownMinutes,
	}
}
