package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или не принадлежит ментору
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена в каталоге
	ErrServiceInactive = errors.New("create_booking: service is inactive")

	// ErrMentorNotFound возвращается, когда ментор не найден
	ErrMentorNotFound = errors.New("create_booking: mentor not found")

	// ErrLeadTimeViolation возвращается, когда до начала сессии меньше минимального срока
	ErrLeadTimeViolation = errors.New("create_booking: lead time violation")

	// ErrDateTooFarInFuture возвращается, когда начало сессии за горизонтом планирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrOutsideAvailability возвращается, когда интервал не попадает в окна доступности ментора
	ErrOutsideAvailability = errors.New("create_booking: outside mentor availability")

	// ErrSlotNotAvailable возвращается, когда интервал занят другим бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrDuplicateBooking возвращается, когда студент уже держит активное
	// бронирование этой услуги в пределах cooldown-окна
	ErrDuplicateBooking = errors.New("create_booking: duplicate booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
