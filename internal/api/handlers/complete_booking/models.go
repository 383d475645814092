package complete_booking

import (
	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/internal/service/bookings/models"
)

// CompleteBookingRequest HTTP request model
type CompleteBookingRequest struct {
	MentorNotes *string `json:"mentorNotes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CompleteBookingRequest) ToServiceRequest(actorID int64, role domain.Role) *models.CompleteBookingRequest {
	return &models.CompleteBookingRequest{
		ActorID:     actorID,
		ActorRole:   role,
		MentorNotes: r.MentorNotes,
	}
}
