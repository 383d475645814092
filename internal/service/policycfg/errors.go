package policycfg

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда override не найден
	ErrOverrideNotFound = errors.New("policy override not found")

	// ErrAccessDenied возвращается, когда у актора нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("policycfg service: internal error")
)
