package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	policyRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/policy"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/availabilityservice"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/catalogservice"
	"github.com/mentorhub/MH-BookingEngine/pkg/ptr"
)

// Фейки зависимостей

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (r *fakeBookingRepo) GetOverlappingScheduled(_ context.Context, mentorID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.MentorID != mentorID || b.Status != domain.StatusScheduled {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.Overlaps(start, end) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakePolicyRepo struct {
	override *domain.MentorPolicyOverride
}

func (r *fakePolicyRepo) GetWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.MentorPolicyOverride, error) {
	if r.override == nil {
		return nil, policyRepo.ErrOverrideNotFound
	}
	return r.override, nil
}

type fakeCatalog struct {
	service *catalogservice.Service
	err     error
}

func (c *fakeCatalog) GetService(_ context.Context, _ int64) (*catalogservice.Service, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.service, nil
}

type fakeAvailability struct {
	windows []availabilityservice.Window
	err     error
}

func (c *fakeAvailability) GetWindows(_ context.Context, _ int64) ([]availabilityservice.Window, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.windows, nil
}

// Хелперы

func testService() *catalogservice.Service {
	return &catalogservice.Service{
		ID:              7,
		MentorID:        42,
		Name:            "Go mentoring",
		DurationMinutes: 60,
		Active:          true,
	}
}

func newTestUseCase(repo *fakeBookingRepo, policies *fakePolicyRepo, catalog *fakeCatalog, availability *fakeAvailability, now time.Time) *UseCase {
	uc := NewUseCase(repo, policies, catalog, availability, domain.BookingPolicy{
		MinLeadHours:   12,
		MaxAdvanceDays: 30,
	}, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExecuteReturnsSlotsFromWindow(t *testing.T) {
	now := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakePolicyRepo{},
		&fakeCatalog{service: testService()},
		&fakeAvailability{windows: []availabilityservice.Window{
			{ID: 1, MentorID: 42, Date: ptr.Ptr("2026-03-10"), StartTime: "09:00", EndTime: "12:00", Timezone: "UTC"},
		}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  42,
		ServiceID: 7,
		From:      day(2026, 3, 10),
		To:        day(2026, 3, 10),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), resp.Slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), resp.Slots[1].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), resp.Slots[2].Start)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecuteSubtractsScheduledBookings(t *testing.T) {
	now := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		{
			ID:             1,
			MentorID:       42,
			Status:         domain.StatusScheduled,
			ScheduledStart: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
			ScheduledEnd:   time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
		},
	}}
	uc := newTestUseCase(
		repo,
		&fakePolicyRepo{},
		&fakeCatalog{service: testService()},
		&fakeAvailability{windows: []availabilityservice.Window{
			{ID: 1, MentorID: 42, Date: ptr.Ptr("2026-03-10"), StartTime: "09:00", EndTime: "12:00", Timezone: "UTC"},
		}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  42,
		ServiceID: 7,
		From:      day(2026, 3, 10),
		To:        day(2026, 3, 10),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), resp.Slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), resp.Slots[1].Start)
}

func TestExecuteCancelledBookingFreesSlot(t *testing.T) {
	now := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		{
			ID:             1,
			MentorID:       42,
			Status:         domain.StatusCancelled,
			ScheduledStart: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
			ScheduledEnd:   time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
		},
	}}
	uc := newTestUseCase(
		repo,
		&fakePolicyRepo{},
		&fakeCatalog{service: testService()},
		&fakeAvailability{windows: []availabilityservice.Window{
			{ID: 1, MentorID: 42, Date: ptr.Ptr("2026-03-10"), StartTime: "09:00", EndTime: "12:00", Timezone: "UTC"},
		}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  42,
		ServiceID: 7,
		From:      day(2026, 3, 10),
		To:        day(2026, 3, 10),
	})
	require.NoError(t, err)

	// Отменённое бронирование не занимает слот
	assert.Len(t, resp.Slots, 3)
}

func TestExecuteFiltersByLeadTime(t *testing.T) {
	// В день сессии: минимальный срок отрезает утренние слоты
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakePolicyRepo{override: &domain.MentorPolicyOverride{
			MentorID:     42,
			MinLeadHours: ptr.Ptr(10),
		}},
		&fakeCatalog{service: testService()},
		&fakeAvailability{windows: []availabilityservice.Window{
			{ID: 1, MentorID: 42, Date: ptr.Ptr("2026-03-10"), StartTime: "09:00", EndTime: "12:00", Timezone: "UTC"},
		}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  42,
		ServiceID: 7,
		From:      day(2026, 3, 10),
		To:        day(2026, 3, 10),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), resp.Slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), resp.Slots[1].Start)
}

func TestExecuteClampsRangeToAdvanceHorizon(t *testing.T) {
	// Горизонт планирования заканчивается раньше запрошенного диапазона
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakePolicyRepo{override: &domain.MentorPolicyOverride{
			MentorID:       42,
			MaxAdvanceDays: ptr.Ptr(9),
		}},
		&fakeCatalog{service: testService()},
		&fakeAvailability{windows: []availabilityservice.Window{
			{ID: 1, MentorID: 42, Date: ptr.Ptr("2026-03-10"), StartTime: "09:00", EndTime: "12:00", Timezone: "UTC"},
		}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  42,
		ServiceID: 7,
		From:      day(2026, 3, 10),
		To:        day(2026, 3, 10),
	})
	require.NoError(t, err)

	// Все слоты окна начинаются позже горизонта 2026-03-10T00:00
	assert.Empty(t, resp.Slots)
}

func TestExecuteListsSlotStartingAtHorizon(t *testing.T) {
	// Горизонт 2026-03-10T10:00 ограничивает начало слота, как при
	// создании: слот 10:00-11:00 бронируем и потому виден, хотя его
	// конец выходит за горизонт
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakePolicyRepo{override: &domain.MentorPolicyOverride{
			MentorID:       42,
			MaxAdvanceDays: ptr.Ptr(9),
		}},
		&fakeCatalog{service: testService()},
		&fakeAvailability{windows: []availabilityservice.Window{
			{ID: 1, MentorID: 42, Date: ptr.Ptr("2026-03-10"), StartTime: "09:00", EndTime: "12:00", Timezone: "UTC"},
		}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  42,
		ServiceID: 7,
		From:      day(2026, 3, 10),
		To:        day(2026, 3, 10),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), resp.Slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), resp.Slots[1].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), resp.Slots[1].End)
}

func TestExecuteServiceOfAnotherMentor(t *testing.T) {
	now := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	service := testService()
	service.MentorID = 99

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakePolicyRepo{},
		&fakeCatalog{service: service},
		&fakeAvailability{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		MentorID:  42,
		ServiceID: 7,
		From:      day(2026, 3, 10),
		To:        day(2026, 3, 10),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecuteInactiveService(t *testing.T) {
	now := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	service := testService()
	service.Active = false

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakePolicyRepo{},
		&fakeCatalog{service: service},
		&fakeAvailability{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		MentorID:  42,
		ServiceID: 7,
		From:      day(2026, 3, 10),
		To:        day(2026, 3, 10),
	})
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecuteRangeValidation(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakePolicyRepo{},
		&fakeCatalog{service: testService()},
		&fakeAvailability{},
		now,
	)

	// to раньше from
	_, err := uc.Execute(context.Background(), &Request{
		MentorID:  42,
		ServiceID: 7,
		From:      day(2026, 3, 10),
		To:        day(2026, 3, 9),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	// Диапазон шире лимита
	_, err = uc.Execute(context.Background(), &Request{
		MentorID:  42,
		ServiceID: 7,
		From:      day(2026, 3, 1),
		To:        day(2026, 4, 15),
	})
	assert.ErrorIs(t, err, ErrRangeTooWide)
}

func TestExecuteMentorNotFound(t *testing.T) {
	now := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakePolicyRepo{},
		&fakeCatalog{service: testService()},
		&fakeAvailability{err: availabilityservice.ErrMentorNotFound},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		MentorID:  42,
		ServiceID: 7,
		From:      day(2026, 3, 10),
		To:        day(2026, 3, 10),
	})
	assert.ErrorIs(t, err, ErrMentorNotFound)
}
