package catalogservice

// Service модель услуги менторинга из каталога
// Каталог read-only для движка бронирований; параметры услуги неизменны
// в течение жизни бронирования
type Service struct {
	ID              int64  `json:"id"`
	MentorID        int64  `json:"mentor_id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	MinLeadHours    int    `json:"min_lead_hours"`
	MaxAdvanceDays  int    `json:"max_advance_days"`
	MaxReschedules  int    `json:"max_reschedules"`
	Active          bool   `json:"active"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
