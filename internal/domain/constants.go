package domain

// Default policy values
const (
	DefaultMinLeadHours             = 12
	DefaultMaxAdvanceDays           = 30
	DefaultMaxReschedules           = 3
	DefaultCancellationWindowHours  = 24
	DefaultDuplicateCooldownMinutes = 0 // 0 = проверка дублей выключена
)

// Business validation constants
const (
	MinSessionDurationMinutes = 15
	MaxSessionDurationMinutes = 240 // 4 hours
	MinLeadHoursLimit         = 0
	MaxLeadHoursLimit         = 168 // 1 week
	MinAdvanceDaysLimit       = 0
	MaxAdvanceDaysLimit       = 365 // 1 year
	MaxReschedulesLimit       = 10
	MaxNotesLength            = 1000
	MaxReasonLength           = 500
	MaxSlotRangeDays          = 31 // Максимальный диапазон одного запроса слотов
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих слот в расписании
// Используется для фильтрации при расчёте доступных слотов
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
	StatusRescheduled,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []BookingStatus{
	StatusScheduled,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
	StatusRescheduled,
}
