package policy

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда override политики не найден
	ErrOverrideNotFound = errors.New("policy.repository: policy override not found")

	// ErrDuplicateOverride возвращается при попытке создать дубликат override'а
	ErrDuplicateOverride = errors.New("policy.repository: duplicate override for mentor and service")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("policy.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("policy.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("policy.repository: failed to scan row")
)
