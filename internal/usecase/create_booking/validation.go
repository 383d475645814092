package create_booking

import (
	"fmt"
	"sort"
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/availabilityservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StudentID <= 0 {
		return fmt.Errorf("%w: studentID must be positive", ErrInvalidInput)
	}

	if req.MentorID <= 0 {
		return fmt.Errorf("%w: mentorID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if req.StudentNotes != nil && len(*req.StudentNotes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: studentNotes exceeds %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// withinAvailability проверяет, что интервал [start, end) целиком лежит
// внутри окон доступности ментора
// Окна раскрываются на день начала и соседние дни: из-за таймзоны окна
// абсолютный интервал может начинаться в другие календарные сутки
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
				log.Warn("CreateBooking: skipping window: %v", err)
				continue
			}

			intervals = append(intervals, interval{start: wStart.UTC(), end: wEnd.UTC()})
		}
	}

	if len(intervals) == 0 {
		return false
	}

	// Пересекающиеся и смежные окна склеиваются - так же, как при расчёте
	// слотов, иначе create отвергал бы слоты, которые расчёт уже выдал
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
