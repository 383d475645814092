package cancel_booking

import (
	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(actorID int64, role domain.Role) *models.CancelBookingRequest {
	reason := ""
	if r.Reason != nil {
		reason = *r.Reason
	}

	return &models.CancelBookingRequest{
		ActorID:   actorID,
		ActorRole: role,
		Reason:    reason,
	}
}
