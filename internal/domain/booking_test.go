package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingOverlaps(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	booking := &Booking{
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
	}

	// Строгое пересечение
	assert.True(t, booking.Overlaps(start.Add(30*time.Minute), start.Add(90*time.Minute)))
	assert.True(t, booking.Overlaps(start.Add(-30*time.Minute), start.Add(30*time.Minute)))
	assert.True(t, booking.Overlaps(start, start.Add(time.Hour)))

	// Граничащие интервалы пересечением не считаются
	assert.False(t, booking.Overlaps(start.Add(time.Hour), start.Add(2*time.Hour)))
	assert.False(t, booking.Overlaps(start.Add(-time.Hour), start))
}

func TestBookingStateTransitions(t *testing.T) {
	for _, status := range []BookingStatus{StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled} {
		b := &Booking{Status: status}
		assert.False(t, b.CanBeCancelled(), "status %s", status)
		assert.False(t, b.CanBeRescheduled(), "status %s", status)
		assert.False(t, b.CanBeCompleted(), "status %s", status)
		assert.False(t, b.IsActive(), "status %s", status)
	}

	b := &Booking{Status: StatusScheduled}
	assert.True(t, b.CanBeCancelled())
	assert.True(t, b.CanBeRescheduled())
	assert.True(t, b.CanBeCompleted())
	assert.True(t, b.IsActive())
	assert.False(t, b.IsTerminal())

	// rescheduled не терминальный, но и не активный
	assert.False(t, (&Booking{Status: StatusRescheduled}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusCancelled}).IsTerminal())
}
