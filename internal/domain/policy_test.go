package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mentorhub/MH-BookingEngine/pkg/ptr"
)

func basePolicy() BookingPolicy {
	return BookingPolicy{
		MinLeadHours:             12,
		MaxAdvanceDays:           30,
		MaxReschedules:           3,
		CancellationWindowHours:  24,
		LateCancelAsNoShow:       false,
		DuplicateCooldownMinutes: 0,
		StrictCompletion:         true,
	}
}

func TestLeadTimeSatisfied(t *testing.T) {
	policy := basePolicy()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Граница включается: ровно 12 часов до начала - можно
	assert.True(t, policy.LeadTimeSatisfied(now, now.Add(12*time.Hour)))
	assert.True(t, policy.LeadTimeSatisfied(now, now.Add(13*time.Hour)))

	// На минуту меньше - нельзя
	assert.False(t, policy.LeadTimeSatisfied(now, now.Add(12*time.Hour-time.Minute)))
	assert.False(t, policy.LeadTimeSatisfied(now, now.Add(time.Hour)))
}

func TestWithinAdvanceWindow(t *testing.T) {
	policy := basePolicy()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Граница включается: ровно 30 дней вперёд - можно
	assert.True(t, policy.WithinAdvanceWindow(now, now.AddDate(0, 0, 30)))
	assert.False(t, policy.WithinAdvanceWindow(now, now.AddDate(0, 0, 30).Add(time.Minute)))

	// Ноль означает отсутствие ограничения
	policy.MaxAdvanceDays = 0
	assert.True(t, policy.WithinAdvanceWindow(now, now.AddDate(2, 0, 0)))
}

func TestClassifyCancellation(t *testing.T) {
	policy := basePolicy()
	start := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	// Задолго до окна отмены - своевременная
	assert.Equal(t, CancellationOnTime, policy.ClassifyCancellation(start.Add(-48*time.Hour), start))

	// Ровно на границе окна - ещё своевременная
	assert.Equal(t, CancellationOnTime, policy.ClassifyCancellation(start.Add(-24*time.Hour), start))

	// Внутри окна - поздняя
	assert.Equal(t, CancellationLate, policy.ClassifyCancellation(start.Add(-23*time.Hour), start))
	assert.Equal(t, CancellationLate, policy.ClassifyCancellation(start.Add(-time.Minute), start))
}

func TestRescheduleAllowed(t *testing.T) {
	policy := basePolicy()

	assert.True(t, policy.RescheduleAllowed(0))
	assert.True(t, policy.RescheduleAllowed(2))
	assert.False(t, policy.RescheduleAllowed(3))
	assert.False(t, policy.RescheduleAllowed(4))
}

func TestDuplicateCheckEnabled(t *testing.T) {
	policy := basePolicy()
	assert.False(t, policy.DuplicateCheckEnabled())

	policy.DuplicateCooldownMinutes = 30
	assert.True(t, policy.DuplicateCheckEnabled())
}

func TestApplyServiceLimits(t *testing.T) {
	policy := basePolicy()

	// Нулевые значения каталога не трогают дефолты
	policy.ApplyServiceLimits(0, 0, 0)
	assert.Equal(t, 12, policy.MinLeadHours)
	assert.Equal(t, 30, policy.MaxAdvanceDays)
	assert.Equal(t, 3, policy.MaxReschedules)

	// Заданные значения перекрывают
	policy.ApplyServiceLimits(24, 14, 1)
	assert.Equal(t, 24, policy.MinLeadHours)
	assert.Equal(t, 14, policy.MaxAdvanceDays)
	assert.Equal(t, 1, policy.MaxReschedules)
}

func TestOverrideApplyTo(t *testing.T) {
	policy := basePolicy()

	override := &MentorPolicyOverride{
		MentorID:           42,
		MinLeadHours:       ptr.Ptr(2),
		LateCancelAsNoShow: ptr.Ptr(true),
	}
	override.ApplyTo(&policy)

	// Заданные поля перекрыты
	assert.Equal(t, 2, policy.MinLeadHours)
	assert.True(t, policy.LateCancelAsNoShow)

	// Незаданные не тронуты
	assert.Equal(t, 30, policy.MaxAdvanceDays)
	assert.Equal(t, 3, policy.MaxReschedules)
	assert.Equal(t, 24, policy.CancellationWindowHours)
}
