package policycfg

import (
	"context"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
)

// PolicyRepository интерфейс репозитория override'ов политики
type PolicyRepository interface {
	Upsert(ctx context.Context, override *domain.MentorPolicyOverride) (*domain.MentorPolicyOverride, error)
	GetByMentorAndService(ctx context.Context, mentorID int64, serviceID *int64) (*domain.MentorPolicyOverride, error)
	GetAllByMentor(ctx context.Context, mentorID int64) ([]*domain.MentorPolicyOverride, error)
	Delete(ctx context.Context, mentorID int64, serviceID *int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
