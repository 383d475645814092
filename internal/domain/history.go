package domain

import "time"

// HistoryAction represents the action recorded in a history entry
type HistoryAction string

const (
	ActionCreated      HistoryAction = "created"
	ActionRescheduled  HistoryAction = "rescheduled"
	ActionCancelled    HistoryAction = "cancelled"
	ActionCompleted    HistoryAction = "completed"
	ActionNoShowMarked HistoryAction = "no_show_marked"
)

// BookingHistoryEntry append-only запись аудита перехода состояния бронирования
// Записи создаются сервисом бронирований на каждом переходе и никогда
// не изменяются и не удаляются
type BookingHistoryEntry struct {
	ID             int64
	BookingID      int64
	Action         HistoryAction
	ActorID        int64
	PreviousStatus *BookingStatus // nil для записи о создании
	NewStatus      BookingStatus
	Reason         *string
	CreatedAt      time.Time
}
