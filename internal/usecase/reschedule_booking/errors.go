package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrAccessDenied возвращается, когда актор не студент, не ментор
	// бронирования и не администратор
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrInvalidState возвращается, когда бронирование уже покинуло статус scheduled
	ErrInvalidState = errors.New("reschedule_booking: booking is not in scheduled state")

	// ErrRescheduleLimitExceeded возвращается, когда лимит переносов цепочки исчерпан
	ErrRescheduleLimitExceeded = errors.New("reschedule_booking: reschedule limit exceeded")

	// ErrLeadTimeViolation возвращается, когда до начала (исходного или нового)
	// осталось меньше минимального срока
	ErrLeadTimeViolation = errors.New("reschedule_booking: lead time violation")

	// ErrDateTooFarInFuture возвращается, когда новое начало за горизонтом планирования
	ErrDateTooFarInFuture = errors.New("reschedule_booking: date is too far in the future")

	// ErrOutsideAvailability возвращается, когда новый интервал не попадает
	// в окна доступности ментора
	ErrOutsideAvailability = errors.New("reschedule_booking: outside mentor availability")

	// ErrSlotNotAvailable возвращается, когда новый интервал занят другим бронированием
	ErrSlotNotAvailable = errors.New("reschedule_booking: slot is not available")

	// ErrServiceNotFound возвращается, когда услуга бронирования исчезла из каталога
	ErrServiceNotFound = errors.New("reschedule_booking: service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
