package get_available_slots

import (
	"context"
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/availabilityservice"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetOverlappingScheduled(ctx context.Context, mentorID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
}

// PolicyRepository интерфейс репозитория override'ов политики
type PolicyRepository interface {
	GetWithHierarchy(ctx context.Context, mentorID int64, serviceID *int64) (*domain.MentorPolicyOverride, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// AvailabilityServiceClient интерфейс клиента сервиса доступности менторов
type AvailabilityServiceClient interface {
	GetWindows(ctx context.Context, mentorID int64) ([]availabilityservice.Window, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
