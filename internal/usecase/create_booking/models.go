package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	StudentID    int64     // ID студента (актор запроса)
	MentorID     int64     // ID ментора
	ServiceID    int64     // ID услуги
	Start        time.Time // Начало сессии (абсолютный момент, UTC)
	StudentNotes *string   // Заметки студента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64     // ID созданного бронирования
	StudentID       int64     // ID студента
	MentorID        int64     // ID ментора
	ServiceID       int64     // ID услуги
	ScheduledStart  time.Time // Начало сессии
	ScheduledEnd    time.Time // Конец сессии
	Status          string    // Статус бронирования
	RescheduleCount int       // Количество переносов в цепочке
	StudentNotes    *string   // Заметки студента

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
