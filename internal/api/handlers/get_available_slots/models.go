package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/mentorhub/MH-BookingEngine/internal/usecase/get_available_slots"
)

// SlotResponse один доступный слот
type SlotResponse struct {
	Start string `json:"start"` // RFC3339
	End   string `json:"end"`   // RFC3339
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	MentorID        int64          `json:"mentorId"`
	ServiceID       int64          `json:"serviceId"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			Start: slot.Start.Format(time.RFC3339),
			End:   slot.End.Format(time.RFC3339),
		})
	}

	return &AvailableSlotsResponse{
		MentorID:        resp.MentorID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
