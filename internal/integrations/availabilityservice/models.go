package availabilityservice

import (
	"fmt"
	"time"

	"github.com/mentorhub/MH-BookingEngine/pkg/types"
)

// Window окно доступности ментора
// Либо повторяющееся (Weekday задан, Date пуст), либо разовое на конкретную
// дату (Date задан). Время начала и конца локальное для Timezone окна;
// источник данных - сервис управления менторами, для движка read-only
type Window struct {
	ID        int64            `json:"id"`
	MentorID  int64            `json:"mentor_id"`
	Weekday   *int             `json:"weekday,omitempty"` // 0 = Sunday ... 6 = Saturday
	Date      *string          `json:"date,omitempty"`    // "2006-01-02"
	StartTime types.TimeString `json:"start_time"`        // "HH:MM"
	EndTime   types.TimeString `json:"end_time"`          // "HH:MM"
	Timezone  string           `json:"timezone"`          // IANA, например "Europe/Berlin"
}

// AppliesTo возвращает true, если окно действует в указанную дату
// (дата сравнивается в таймзоне окна)
func (w *Window) AppliesTo(date time.Time) bool {
	if w.Date != nil {
		return *w.Date == date.Format("2006-01-02")
	}
	if w.Weekday != nil {
		return time.Weekday(*w.Weekday) == date.Weekday()
	}
	return false
}

// Interval возвращает абсолютный интервал [start, end) окна на указанную дату
func (w *Window) Interval(date time.Time) (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window id=%d: invalid timezone %q: %w", w.ID, w.Timezone, err)
	}

	start, err := w.StartTime.OnDate(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window id=%d: %w", w.ID, err)
	}

	end, err := w.EndTime.OnDate(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window id=%d: %w", w.ID, err)
	}

	return start, end, nil
}

// windowsResponse ответ сервиса доступности
type windowsResponse struct {
	MentorID int64    `json:"mentor_id"`
	Windows  []Window `json:"windows"`
}
