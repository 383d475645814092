package get_available_slots

import (
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
)

// Request модель запроса доступных слотов
type Request struct {
	MentorID  int64     // ID ментора
	ServiceID int64     // ID услуги (определяет длительность слота)
	From      time.Time // Первый день диапазона (дата, UTC)
	To        time.Time // Последний день диапазона включительно (дата, UTC)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	MentorID        int64                  // ID ментора
	ServiceID       int64                  // ID услуги
	DurationMinutes int                    // Длительность слота
	Slots           []domain.AvailableSlot // Упорядоченные непересекающиеся слоты
}
