package domain

import "time"

// AvailableSlot кандидат на бронирование: интервал фиксированной длительности,
// попадающий в окно доступности ментора и не пересекающийся с активными
// бронированиями. Результат расчёта слотов советующий: отсутствие конфликта
// на момент чтения не гарантирует его отсутствие на момент бронирования
type AvailableSlot struct {
	Start time.Time
	End   time.Time
}

// Duration возвращает длительность слота
func (s AvailableSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlaps возвращает true, если слот строго пересекается с [start, end)
func (s AvailableSlot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End.After(start)
}
