package delete_policy_config

import (
	"context"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
)

type PolicyService interface {
	Delete(ctx context.Context, mentorID int64, serviceID *int64, actorID int64, role domain.Role) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
