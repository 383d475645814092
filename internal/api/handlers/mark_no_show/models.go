package mark_no_show

import (
	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/internal/service/bookings/models"
)

// MarkNoShowRequest HTTP request model
type MarkNoShowRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *MarkNoShowRequest) ToServiceRequest(actorID int64, role domain.Role) *models.MarkNoShowRequest {
	return &models.MarkNoShowRequest{
		ActorID:   actorID,
		ActorRole: role,
		Reason:    r.Reason,
	}
}
