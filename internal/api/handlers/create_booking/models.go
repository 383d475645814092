package create_booking

import (
	"time"

	createBooking "github.com/mentorhub/MH-BookingEngine/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	MentorID       int64   `json:"mentorId"`
	ServiceID      int64   `json:"serviceId"`
	ScheduledStart string  `json:"scheduledStart"` // RFC3339
	StudentNotes   *string `json:"studentNotes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
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
func (r *CreateBookingRequest) ToUseCaseRequest(studentID int64) (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.ScheduledStart)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		StudentID:    studentID,
		MentorID:     r.MentorID,
		ServiceID:    r.ServiceID,
		Start:        start,
		StudentNotes: r.StudentNotes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
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
