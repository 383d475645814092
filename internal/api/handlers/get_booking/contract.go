package get_booking

import (
	"context"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, bookingID, actorID int64, role domain.Role) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
