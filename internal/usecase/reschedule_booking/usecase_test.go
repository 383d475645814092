package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	bookingRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/booking"
	policyRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/policy"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/availabilityservice"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/catalogservice"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/notifier"
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
	bookings map[int64]*domain.Booking
	nextID   int64
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
		if b.ID > repo.nextID {
			repo.nextID = b.ID
		}
	}
	return repo
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.nextID++
	booking.ID = r.nextID
	r.bookings[booking.ID] = booking
	return booking, nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
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

func (r *fakeBookingRepo) MarkRescheduled(_ context.Context, id int64, supersededBy int64) error {
	booking, ok := r.bookings[id]
	if !ok || booking.Status != domain.StatusScheduled {
		return bookingRepo.ErrInvalidState
	}
	booking.Status = domain.StatusRescheduled
	booking.SupersededBy = &supersededBy
	return nil
}

type fakeHistoryRepo struct {
	entries []*domain.BookingHistoryEntry
}

func (r *fakeHistoryRepo) Append(_ context.Context, entry *domain.BookingHistoryEntry) (*domain.BookingHistoryEntry, error) {
	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, entry)
	return entry, nil
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
}

func (c *fakeCatalog) GetService(_ context.Context, _ int64) (*catalogservice.Service, error) {
	if c.service == nil {
		return nil, catalogservice.ErrServiceNotFound
	}
	return c.service, nil
}

type fakeAvailability struct {
	windows []availabilityservice.Window
}

func (c *fakeAvailability) GetWindows(_ context.Context, _ int64) ([]availabilityservice.Window, error) {
	return c.windows, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	keys []string
}

func (n *fakeNotifier) PublishAsync(routingKey string, _ *domain.Booking, _ int64, _ *string) {
	n.keys = append(n.keys, routingKey)
}

// Хелперы

type testEnv struct {
	repo    *fakeBookingRepo
	history *fakeHistoryRepo
	events  *fakeNotifier
	uc      *UseCase
}

func scheduledBooking() *domain.Booking {
	return &domain.Booking{
		ID:              1,
		StudentID:       100,
		MentorID:        42,
		ServiceID:       7,
		ScheduledStart:  time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		ScheduledEnd:    time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
		Status:          domain.StatusScheduled,
		RescheduleCount: 0,
		StudentNotes:    ptr.Ptr("looking forward"),
	}
}

func newTestEnv(now time.Time, bookings ...*domain.Booking) *testEnv {
	env := &testEnv{
		repo:    newFakeBookingRepo(bookings...),
		history: &fakeHistoryRepo{},
		events:  &fakeNotifier{},
	}

	env.uc = NewUseCase(
		env.repo,
		env.history,
		&fakePolicyRepo{},
		&fakeCatalog{service: &catalogservice.Service{
			ID:              7,
			MentorID:        42,
			Name:            "Go mentoring",
			DurationMinutes: 60,
			Active:          true,
		}},
		&fakeAvailability{windows: []availabilityservice.Window{
			{ID: 1, MentorID: 42, Date: ptr.Ptr("2026-03-10"), StartTime: "09:00", EndTime: "18:00", Timezone: "UTC"},
			{ID: 2, MentorID: 42, Date: ptr.Ptr("2026-03-12"), StartTime: "09:00", EndTime: "18:00", Timezone: "UTC"},
		}},
		fakeTxManager{},
		env.events,
		domain.BookingPolicy{
			MinLeadHours:   12,
			MaxAdvanceDays: 30,
			MaxReschedules: 2,
		},
		nopLogger{},
	)
	env.uc.timeProvider = fixedTime{now: now}

	return env
}

func validRequest() *Request {
	return &Request{
		BookingID: 1,
		ActorID:   100,
		ActorRole: domain.RoleStudent,
		NewStart:  time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC),
		Reason:    ptr.Ptr("schedule conflict"),
	}
}

func TestExecuteSupersedesBooking(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), scheduledBooking())

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Преемник наследует участников и заметки, счётчик переносов растёт
	assert.Equal(t, int64(2), resp.ID)
	assert.Equal(t, int64(1), resp.PreviousID)
	assert.Equal(t, 1, resp.RescheduleCount)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	require.NotNil(t, resp.StudentNotes)
	assert.Equal(t, "looking forward", *resp.StudentNotes)

	// Исходное помечено rescheduled со ссылкой на преемника
	original := env.repo.bookings[1]
	assert.Equal(t, domain.StatusRescheduled, original.Status)
	require.NotNil(t, original.SupersededBy)
	assert.Equal(t, int64(2), *original.SupersededBy)

	// Две записи аудита в одной транзакции
	require.Len(t, env.history.entries, 2)
	assert.Equal(t, domain.ActionRescheduled, env.history.entries[0].Action)
	assert.Equal(t, int64(1), env.history.entries[0].BookingID)
	assert.Equal(t, domain.ActionCreated, env.history.entries[1].Action)
	assert.Equal(t, int64(2), env.history.entries[1].BookingID)

	assert.Equal(t, []string{notifier.KeyBookingRescheduled}, env.events.keys)
}

func TestExecuteRescheduleLimitExceeded(t *testing.T) {
	booking := scheduledBooking()
	booking.RescheduleCount = 2
	env := newTestEnv(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), booking)

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrRescheduleLimitExceeded)

	// Новая строка не появилась, исходное не тронуто
	assert.Len(t, env.repo.bookings, 1)
	assert.Equal(t, domain.StatusScheduled, env.repo.bookings[1].Status)
}

func TestExecuteLeadTimeOnOriginalStart(t *testing.T) {
	// До исходной сессии меньше 12 часов: переносить уже поздно,
	// даже если новое начало далеко
	env := newTestEnv(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), scheduledBooking())

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrLeadTimeViolation)
}

func TestExecuteLeadTimeOnNewStart(t *testing.T) {
	booking := scheduledBooking()
	booking.ScheduledStart = time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC)
	booking.ScheduledEnd = time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)
	env := newTestEnv(time.Date(2026, 3, 12, 4, 0, 0, 0, time.UTC), booking)

	// Новое начало через 10 часов - меньше минимального срока
	req := validRequest()
	req.NewStart = time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrLeadTimeViolation)
}

func TestExecuteInvalidState(t *testing.T) {
	booking := scheduledBooking()
	booking.Status = domain.StatusCancelled
	env := newTestEnv(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), booking)

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestExecuteAccessDenied(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), scheduledBooking())

	req := validRequest()
	req.ActorID = 555

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecuteMentorCanReschedule(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), scheduledBooking())

	req := validRequest()
	req.ActorID = 42
	req.ActorRole = domain.RoleMentor

	_, err := env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecuteAdminCanReschedule(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), scheduledBooking())

	req := validRequest()
	req.ActorID = 999
	req.ActorRole = domain.RoleAdmin

	_, err := env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecuteNewSlotConflicts(t *testing.T) {
	other := &domain.Booking{
		ID:             5,
		StudentID:      200,
		MentorID:       42,
		ServiceID:      7,
		ScheduledStart: time.Date(2026, 3, 12, 14, 30, 0, 0, time.UTC),
		ScheduledEnd:   time.Date(2026, 3, 12, 15, 30, 0, 0, time.UTC),
		Status:         domain.StatusScheduled,
	}
	env := newTestEnv(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), scheduledBooking(), other)

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, env.history.entries)
}

func TestExecuteOverlapWithItselfIgnored(t *testing.T) {
	// Перенос в интервал, пересекающийся только с самим переносимым
	// бронированием, разрешён
	booking := scheduledBooking()
	booking.ScheduledStart = time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	booking.ScheduledEnd = time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)
	env := newTestEnv(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), booking)

	req := validRequest()
	req.NewStart = time.Date(2026, 3, 12, 14, 30, 0, 0, time.UTC)

	_, err := env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecuteBookingNotFound(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecuteOutsideAvailability(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), scheduledBooking())

	req := validRequest()
	req.NewStart = time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideAvailability)
}
