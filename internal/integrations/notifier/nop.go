package notifier

import "github.com/mentorhub/MH-BookingEngine/internal/domain"

// NopPublisher заглушка publisher'а, когда публикация событий выключена
type NopPublisher struct{}

// PublishAsync ничего не делает
func (NopPublisher) PublishAsync(routingKey string, booking *domain.Booking, actorID int64, reason *string) {
}

// Close ничего не делает
func (NopPublisher) Close() {}
