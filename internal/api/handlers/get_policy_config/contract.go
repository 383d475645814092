package get_policy_config

import (
	"context"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/internal/service/policycfg/models"
)

type PolicyService interface {
	GetByMentor(ctx context.Context, mentorID int64, actorID int64, role domain.Role) (*models.OverrideListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
