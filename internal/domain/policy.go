package domain

import "time"

// CancellationClass классификация отмены относительно окна отмены
type CancellationClass string

const (
	CancellationOnTime CancellationClass = "on_time"
	CancellationLate   CancellationClass = "late"
)

// BookingPolicy параметры бизнес-правил бронирования
// Собирается на каждый вызов из данных каталога услуг, override'ов ментора
// и дефолтов конфигурации; все методы - чистые функции от (policy, now, ...)
type BookingPolicy struct {
	MinLeadHours             int  // Минимальный срок до начала сессии
	MaxAdvanceDays           int  // Максимум дней вперёд для бронирования
	MaxReschedules           int  // Максимум переносов на цепочку бронирования
	CancellationWindowHours  int  // Окно "своевременной" отмены до начала
	LateCancelAsNoShow       bool // Поздняя самоотмена студента -> no_show
	DuplicateCooldownMinutes int  // 0 = проверка дублей выключена
	StrictCompletion         bool // Завершать можно только после scheduled_end
}

// LeadTimeSatisfied проверяет минимальный срок до начала сессии
// Граница включается: start == now + MinLeadHours удовлетворяет условию
func (p BookingPolicy) LeadTimeSatisfied(now, start time.Time) bool {
	return !start.Before(now.Add(time.Duration(p.MinLeadHours) * time.Hour))
}

// WithinAdvanceWindow проверяет, что начало сессии не дальше MaxAdvanceDays
// MaxAdvanceDays = 0 означает отсутствие ограничения
func (p BookingPolicy) WithinAdvanceWindow(now, start time.Time) bool {
	if p.MaxAdvanceDays == 0 {
		return true
	}
	return !start.After(now.AddDate(0, 0, p.MaxAdvanceDays))
}

// ClassifyCancellation классифицирует отмену как своевременную или позднюю
// Отмена поздняя, если до начала сессии осталось меньше окна отмены
func (p BookingPolicy) ClassifyCancellation(now, start time.Time) CancellationClass {
	if now.After(start.Add(-time.Duration(p.CancellationWindowHours) * time.Hour)) {
		return CancellationLate
	}
	return CancellationOnTime
}

// RescheduleAllowed проверяет, что лимит переносов ещё не исчерпан
func (p BookingPolicy) RescheduleAllowed(count int) bool {
	return count < p.MaxReschedules
}

// DuplicateCheckEnabled возвращает true, если включена проверка дублей
func (p BookingPolicy) DuplicateCheckEnabled() bool {
	return p.DuplicateCooldownMinutes > 0
}

// ApplyServiceLimits накладывает лимиты из каталога услуг на политику
// Нулевые значения каталога означают "не задано" и не трогают дефолты
func (p *BookingPolicy) ApplyServiceLimits(minLeadHours, maxAdvanceDays, maxReschedules int) {
	if minLeadHours > 0 {
		p.MinLeadHours = minLeadHours
	}
	if maxAdvanceDays > 0 {
		p.MaxAdvanceDays = maxAdvanceDays
	}
	if maxReschedules > 0 {
		p.MaxReschedules = maxReschedules
	}
}

// MentorPolicyOverride переопределение политики для ментора (и опционально услуги)
// Разрешается иерархически: (mentor, service) > (mentor, NULL) > дефолты
type MentorPolicyOverride struct {
	ID        int64
	MentorID  int64
	ServiceID *int64 // NULL = override для всех услуг ментора

	MinLeadHours             *int
	MaxAdvanceDays           *int
	MaxReschedules           *int
	CancellationWindowHours  *int
	LateCancelAsNoShow       *bool
	DuplicateCooldownMinutes *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyTo накладывает заданные поля override'а на политику
func (o *MentorPolicyOverride) ApplyTo(p *BookingPolicy) {
	if o.MinLeadHours != nil {
		p.MinLeadHours = *o.MinLeadHours
	}
	if o.MaxAdvanceDays != nil {
		p.MaxAdvanceDays = *o.MaxAdvanceDays
	}
	if o.MaxReschedules != nil {
		p.MaxReschedules = *o.MaxReschedules
	}
	if o.CancellationWindowHours != nil {
		p.CancellationWindowHours = *o.CancellationWindowHours
	}
	if o.LateCancelAsNoShow != nil {
		p.LateCancelAsNoShow = *o.LateCancelAsNoShow
	}
	if o.DuplicateCooldownMinutes != nil {
		p.DuplicateCooldownMinutes = *o.DuplicateCooldownMinutes
	}
}
