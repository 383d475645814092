package models

import (
	"errors"
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	ActorID   int64       `json:"actorId"`
	ActorRole domain.Role `json:"actorRole"`
	Reason    string      `json:"reason"`
}

// CompleteBookingRequest запрос на завершение бронирования
type CompleteBookingRequest struct {
	ActorID     int64       `json:"actorId"`
	ActorRole   domain.Role `json:"actorRole"`
	MentorNotes *string     `json:"mentorNotes,omitempty"`
}

// MarkNoShowRequest запрос на отметку неявки студента
type MarkNoShowRequest struct {
	ActorID   int64       `json:"actorId"`
	ActorRole domain.Role `json:"actorRole"`
	Reason    *string     `json:"reason,omitempty"`
}

// GetStudentBookingsRequest запрос бронирований студента
type GetStudentBookingsRequest struct {
	StudentID int64       `json:"studentId"`
	ActorID   int64       `json:"actorId"`
	ActorRole domain.Role `json:"actorRole"`
	Status    *string     `json:"status,omitempty"`
}

// GetMentorBookingsRequest запрос бронирований ментора с фильтрацией
type GetMentorBookingsRequest struct {
	MentorID        int64       `json:"mentorId"`
	ActorID         int64       `json:"actorId"`
	ActorRole       domain.Role `json:"actorRole"`
	From            *time.Time  `json:"from,omitempty"`            // Начало периода (опционально)
	To              *time.Time  `json:"to,omitempty"`              // Конец периода (опционально)
	Status          *string     `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool        `json:"includeInactive,omitempty"` // Включить завершённые/отменённые/перенесённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetMentorBookingsRequest) ToDomainFilter() (domain.MentorBookingsFilter, error) {
	filter := domain.MentorBookingsFilter{
		MentorID:        r.MentorID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64     `json:"id"`
	StudentID       int64     `json:"studentId"`
	MentorID        int64     `json:"mentorId"`
	ServiceID       int64     `json:"serviceId"`
	ScheduledStart  time.Time `json:"scheduledStart"`
	ScheduledEnd    time.Time `json:"scheduledEnd"`
	Status          string    `json:"status"`
	RescheduleCount int       `json:"rescheduleCount"`
	SupersededBy    *int64    `json:"supersededBy,omitempty"`

	StudentNotes *string `json:"studentNotes,omitempty"`
	MentorNotes  *string `json:"mentorNotes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// HistoryEntryResponse запись истории переходов бронирования
type HistoryEntryResponse struct {
	ID             int64     `json:"id"`
	BookingID      int64     `json:"bookingId"`
	Action         string    `json:"action"`
	ActorID        int64     `json:"actorId"`
	PreviousStatus *string   `json:"previousStatus,omitempty"`
	NewStatus      string    `json:"newStatus"`
	Reason         *string   `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// HistoryListResponse ответ с историей бронирования
type HistoryListResponse struct {
	BookingID int64                  `json:"bookingId"`
	Entries   []HistoryEntryResponse `json:"entries"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		StudentID:          b.StudentID,
		MentorID:           b.MentorID,
		ServiceID:          b.ServiceID,
		ScheduledStart:     b.ScheduledStart,
		ScheduledEnd:       b.ScheduledEnd,
		Status:             string(b.Status),
		RescheduleCount:    b.RescheduleCount,
		SupersededBy:       b.SupersededBy,
		StudentNotes:       b.StudentNotes,
		MentorNotes:        b.MentorNotes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// FromDomainHistoryEntry конвертирует запись истории в DTO
func FromDomainHistoryEntry(e *domain.BookingHistoryEntry) *HistoryEntryResponse {
	if e == nil {
		return nil
	}

	resp := &HistoryEntryResponse{
		ID:        e.ID,
		BookingID: e.BookingID,
		Action:    string(e.Action),
		ActorID:   e.ActorID,
		NewStatus: string(e.NewStatus),
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}

	if e.PreviousStatus != nil {
		prev := string(*e.PreviousStatus)
		resp.PreviousStatus = &prev
	}

	return resp
}

// FromDomainHistoryList конвертирует историю бронирования в DTO
func FromDomainHistoryList(bookingID int64, entries []*domain.BookingHistoryEntry) *HistoryListResponse {
	resp := &HistoryListResponse{
		BookingID: bookingID,
		Entries:   make([]HistoryEntryResponse, 0, len(entries)),
	}

	for _, entry := range entries {
		if entryResp := FromDomainHistoryEntry(entry); entryResp != nil {
			resp.Entries = append(resp.Entries, *entryResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	for _, valid := range domain.ValidStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
