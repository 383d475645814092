package get_available_slots

import (
	"sort"
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/availabilityservice"
)

// interval полуоткрытый интервал [start, end)
type interval struct {
	start time.Time
	end   time.Time
}

// expandWindows разворачивает окна доступности в абсолютные интервалы
// на каждый день диапазона [from, to] (включительно, шаг сутки)
// Конвертация в абсолютное время выполняется в таймзоне окна; окна с
// некорректной таймзоной или временем пропускаются с предупреждением
func expandWindows(windows []availabilityservice.Window, from, to time.Time, log Logger) []interval {
	intervals := make([]interval, 0, len(windows))

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		for i := range windows {
			w := &windows[i]
			if !w.AppliesTo(day) {
				continue
			}

			start, end, err := w.Interval(day)
			if err != nil {
				log.Warn("GetAvailableSlots: skipping window: %v", err)
				continue
			}

			if !start.Before(end) {
				continue
			}

			intervals = append(intervals, interval{start: start.UTC(), end: end.UTC()})
		}
	}

	return intervals
}

// mergeIntervals сливает пересекающиеся и смежные интервалы
// Результат отсортирован по началу и не содержит пересечений
func mergeIntervals(intervals []interval) []interval {
	if len(intervals) == 0 {
		return intervals
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start.Before(intervals[j].start)
	})

	merged := make([]interval, 0, len(intervals))
	current := intervals[0]

	for _, iv := range intervals[1:] {
		// Смежные интервалы (end == start) тоже сливаются
		if !iv.start.After(current.end) {
			if iv.end.After(current.end) {
				current.end = iv.end
			}
			continue
		}
		merged = append(merged, current)
		current = iv
	}

	return append(merged, current)
}

// subtractBookings вычитает занятые интервалы бронирований из свободных
// free должен быть отсортирован и без пересечений (результат mergeIntervals)
func subtractBookings(free []interval, bookings []*domain.Booking) []interval {
	if len(bookings) == 0 {
		return free
	}

	busy := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, interval{start: b.ScheduledStart.UTC(), end: b.ScheduledEnd.UTC()})
	}
	busy = mergeIntervals(busy)

	result := make([]interval, 0, len(free))

	for _, f := range free {
		cursor := f.start
		for _, b := range busy {
			if !b.start.Before(f.end) {
				break
			}
			if !b.end.After(cursor) {
				continue
			}
			if b.start.After(cursor) {
				result = append(result, interval{start: cursor, end: b.start})
			}
			if b.end.After(cursor) {
				cursor = b.end
			}
		}
		if cursor.Before(f.end) {
			result = append(result, interval{start: cursor, end: f.end})
		}
	}

	return result
}

// cutSlots нарезает свободные интервалы на слоты фиксированной длительности
// Нарезка идёт от начала интервала; неполный хвост отбрасывается.
// Слот попадает в результат, если его начало лежит в [earliest, latestStart]:
// границы ограничивают начало слота, не конец - так слот, начинающийся
// на самом горизонте планирования, остаётся бронируемым и видимым
func cutSlots(free []interval, duration time.Duration, earliest, latestStart time.Time) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0)

	for _, f := range free {
		for start := f.start; !start.Add(duration).After(f.end); start = start.Add(duration) {
			if start.Before(earliest) {
				continue
			}
			if start.After(latestStart) {
				break
			}
			slots = append(slots, domain.AvailableSlot{Start: start, End: start.Add(duration)})
		}
	}

	return slots
}
