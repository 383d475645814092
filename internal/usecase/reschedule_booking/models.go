package reschedule_booking

import (
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID int64       // ID переносимого бронирования
	ActorID   int64       // ID актора запроса
	ActorRole domain.Role // Роль актора
	NewStart  time.Time   // Новое начало сессии (абсолютный момент, UTC)
	Reason    *string     // Причина переноса (опционально)
}

// Response модель ответа с бронированием-преемником
type Response struct {
	ID              int64     // ID нового бронирования
	PreviousID      int64     // ID заменённого бронирования
	StudentID       int64     // ID студента
	MentorID        int64     // ID ментора
	ServiceID       int64     // ID услуги
	ScheduledStart  time.Time // Новое начало сессии
	ScheduledEnd    time.Time // Новый конец сессии
	Status          string    // Статус нового бронирования
	RescheduleCount int       // Количество переносов в цепочке
	StudentNotes    *string   // Заметки студента (переносятся с исходного)

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
