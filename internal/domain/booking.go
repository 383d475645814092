package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusScheduled   BookingStatus = "scheduled"
	StatusCompleted   BookingStatus = "completed"
	StatusCancelled   BookingStatus = "cancelled"
	StatusNoShow      BookingStatus = "no_show"
	StatusRescheduled BookingStatus = "rescheduled"
)

// Booking represents a one-to-one mentoring session booking
type Booking struct {
	ID        int64
	StudentID int64
	MentorID  int64
	ServiceID int64

	// Абсолютные моменты начала и конца сессии (UTC)
	// ScheduledEnd = ScheduledStart + длительность услуги
	ScheduledStart time.Time
	ScheduledEnd   time.Time

	Status BookingStatus

	// Цепочка переносов: счётчик переносится на преемника, не сбрасывается
	RescheduleCount int
	SupersededBy    *int64

	StudentNotes *string
	MentorNotes  *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its time slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusScheduled
}

// IsTerminal returns true if the booking reached a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted ||
		b.Status == StatusCancelled ||
		b.Status == StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusScheduled
}

// CanBeRescheduled returns true if the booking can be superseded by a reschedule
// Уже перенесённое бронирование переносить нельзя - это структурно
// предотвращает циклы в цепочке superseded_by
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusScheduled
}

// CanBeCompleted returns true if the booking can be marked completed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusScheduled
}

// Overlaps returns true if the booking interval strictly overlaps [start, end)
// Граничащие интервалы (конец одного == начало другого) пересечением не считаются
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.ScheduledStart.Before(end) && b.ScheduledEnd.After(start)
}

// MentorBookingsFilter фильтр для получения бронирований ментора
type MentorBookingsFilter struct {
	MentorID        int64          // Обязательный параметр
	From            *time.Time     // Начало периода (опционально)
	To              *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершённые/отменённые/перенесённые
}
