package reschedule_booking

import (
	"fmt"
	"sort"
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/availabilityservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	if req.NewStart.IsZero() {
		return fmt.Errorf("%w: newStart is required", ErrInvalidInput)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return nil
}

// canReschedule проверяет право актора переносить бронирование
// Разрешено студенту бронирования, его ментору и администратору
func canReschedule(booking *domain.Booking, actorID int64, role domain.Role) bool {
	if role.IsAdmin() {
		return true
	}
	return actorID == booking.StudentID || actorID == booking.MentorID
}

// withinAvailability проверяет, что интервал [start, end) целиком лежит
// внутри окон доступности ментора (пересекающиеся окна склеиваются)
func withinAvailability(windows []availabilityservice.Window, start, end time.Time, log Logger) bool {
	type interval struct {
		start time.Time
		end   time.Time
	}

	intervals := make([]interval, 0, len(windows))

	for day := start.AddDate(0, 0, -1); !day.After(start.AddDate(0, 0, 1)); day = day.AddDate(0, 0, 1) {
		for i := range windows {
			w := &windows[i]
			if !w.AppliesTo(day) {
				continue
			}

			wStart, wEnd, err := w.Interval(day)
			if err != nil {
				log.Warn("RescheduleBooking: skipping window: %v", err)
				continue
			}

			intervals = append(intervals, interval{start: wStart.UTC(), end: wEnd.UTC()})
		}
	}

	if len(intervals) == 0 {
		return false
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start.Before(intervals[j].start)
	})

	merged := []interval{intervals[0]}
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if !iv.start.After(last.end) {
			if iv.end.After(last.end) {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}

	for _, iv := range merged {
		if !start.Before(iv.start) && !end.After(iv.end) {
			return true
		}
	}

	return false
}
