// Package notifier fire-and-forget публикация событий переходов бронирований
//
// Движок публикует событие в topic exchange после каждого успешного перехода
// и не ждёт результата: доставка, повторы и рассылка получателям - зона
// ответственности внешней подсистемы уведомлений
package notifier

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
)

const (
	// ExchangeKind тип exchange для событий бронирований
	ExchangeKind = "topic"

	// Routing keys событий
	KeyBookingCreated     = "booking.created"
	KeyBookingRescheduled = "booking.rescheduled"
	KeyBookingCancelled   = "booking.cancelled"
	KeyBookingCompleted   = "booking.completed"
	KeyBookingNoShow      = "booking.no_show"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Event полезная нагрузка события перехода бронирования
type Event struct {
	BookingID      int64   `json:"booking_id"`
	StudentID      int64   `json:"student_id"`
	MentorID       int64   `json:"mentor_id"`
	ServiceID      int64   `json:"service_id"`
	ScheduledStart string  `json:"scheduled_start"` // RFC3339
	ScheduledEnd   string  `json:"scheduled_end"`   // RFC3339
	Status         string  `json:"status"`
	ActorID        int64   `json:"actor_id"`
	SupersededBy   *int64  `json:"superseded_by,omitempty"`
	Reason         *string `json:"reason,omitempty"`
	OccurredAt     string  `json:"occurred_at"` // RFC3339
}

// Publisher публикует события бронирований в RabbitMQ
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      Logger
}

// NewPublisher подключается к RabbitMQ и объявляет exchange
func NewPublisher(url, exchange string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("notifier: rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("notifier: rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, ExchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("notifier: exchange declare: %w", err)
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishAsync публикует событие в отдельной goroutine, не блокируя
// вызывающего. Ошибки публикации только логируются: движок не повторяет
// отправку и не откатывает переход из-за недоставленного уведомления
func (p *Publisher) PublishAsync(routingKey string, booking *domain.Booking, actorID int64, reason *string) {
	event := Event{
		BookingID:      booking.ID,
		StudentID:      booking.StudentID,
		MentorID:       booking.MentorID,
		ServiceID:      booking.ServiceID,
		ScheduledStart: booking.ScheduledStart.Format(time.RFC3339),
		ScheduledEnd:   booking.ScheduledEnd.Format(time.RFC3339),
		Status:         string(booking.Status),
		ActorID:        actorID,
		SupersededBy:   booking.SupersededBy,
		Reason:         reason,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}

	go func() {
		if err := p.publish(routingKey, event); err != nil {
			p.log.Error("notifier: failed to publish %s for booking id=%d: %v", routingKey, event.BookingID, err)
			return
		}
		p.log.Info("notifier: published %s for booking id=%d", routingKey, event.BookingID)
	}()
}

func (p *Publisher) publish(routingKey string, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.channel.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
