package update_policy_config

import (
	"context"

	"github.com/mentorhub/MH-BookingEngine/internal/service/policycfg/models"
)

type PolicyService interface {
	Upsert(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
