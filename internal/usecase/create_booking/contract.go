package create_booking

import (
	"context"
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/availabilityservice"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetOverlappingScheduled(ctx context.Context, mentorID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	HasScheduledForService(ctx context.Context, studentID, serviceID int64, createdAfter time.Time) (bool, error)
}

// HistoryRepository интерфейс репозитория истории переходов
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.BookingHistoryEntry) (*domain.BookingHistoryEntry, error)
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

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс fire-and-forget публикации событий
type Notifier interface {
	PublishAsync(routingKey string, booking *domain.Booking, actorID int64, reason *string)
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
