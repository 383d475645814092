package reschedule_booking

import (
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	rescheduleBooking "github.com/mentorhub/MH-BookingEngine/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewStart string  `json:"newStart"` // RFC3339
	Reason   *string `json:"reason,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	PreviousID      int64   `json:"previousId"`
	StudentID       int64   `json:"studentId"`
	MentorID        int64   `json:"mentorId"`
	ServiceID       int64   `json:"serviceId"`
	ScheduledStart  string  `json:"scheduledStart"`
	ScheduledEnd    string  `json:"scheduledEnd"`
	Status          string  `json:"status"`
	RescheduleCount int     `json:"rescheduleCount"`
	StudentNotes    *string `json:"studentNotes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID, actorID int64, role domain.Role) (*rescheduleBooking.Request, error) {
	newStart, err := time.Parse(time.RFC3339, r.NewStart)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		BookingID: bookingID,
		ActorID:   actorID,
		ActorRole: role,
		NewStart:  newStart,
		Reason:    r.Reason,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		PreviousID:      resp.PreviousID,
		StudentID:       resp.StudentID,
		MentorID:        resp.MentorID,
		ServiceID:       resp.ServiceID,
		ScheduledStart:  resp.ScheduledStart.Format(time.RFC3339),
		ScheduledEnd:    resp.ScheduledEnd.Format(time.RFC3339),
		Status:          resp.Status,
		RescheduleCount: resp.RescheduleCount,
		StudentNotes:    resp.StudentNotes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
