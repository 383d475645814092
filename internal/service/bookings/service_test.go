package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	bookingRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/booking"
	policyRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/policy"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/catalogservice"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/notifier"
	"github.com/mentorhub/MH-BookingEngine/internal/service/bookings/models"
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
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
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

func (r *fakeBookingRepo) GetByStudentID(_ context.Context, studentID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.StudentID != studentID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeBookingRepo) GetByMentorWithFilter(_ context.Context, filter domain.MentorBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.MentorID != filter.MentorID {
			continue
		}
		if filter.Status != nil {
			if b.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeInactive && b.Status != domain.StatusScheduled {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id int64, status domain.BookingStatus, reason string) error {
	booking, ok := r.bookings[id]
	if !ok || booking.Status != domain.StatusScheduled {
		return bookingRepo.ErrInvalidState
	}
	booking.Status = status
	booking.CancellationReason = &reason
	return nil
}

func (r *fakeBookingRepo) Complete(_ context.Context, id int64, mentorNotes *string) error {
	booking, ok := r.bookings[id]
	if !ok || booking.Status != domain.StatusScheduled {
		return bookingRepo.ErrInvalidState
	}
	booking.Status = domain.StatusCompleted
	booking.MentorNotes = mentorNotes
	return nil
}

func (r *fakeBookingRepo) MarkNoShow(_ context.Context, id int64, reason *string) error {
	booking, ok := r.bookings[id]
	if !ok || booking.Status != domain.StatusScheduled {
		return bookingRepo.ErrInvalidState
	}
	booking.Status = domain.StatusNoShow
	booking.CancellationReason = reason
	return nil
}

type fakeHistoryRepo struct {
	entries []*domain.BookingHistoryEntry
}

func (r *fakeHistoryRepo) Append(_ context.Context, entry *domain.BookingHistoryEntry) (*domain.BookingHistoryEntry, error) {
	entry.ID = int64(len(r.entries) + 1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *fakeHistoryRepo) ListByBooking(_ context.Context, bookingID int64) ([]*domain.BookingHistoryEntry, error) {
	result := make([]*domain.BookingHistoryEntry, 0)
	for _, e := range r.entries {
		if e.BookingID == bookingID {
			result = append(result, e)
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
}

func (c *fakeCatalog) GetService(_ context.Context, _ int64) (*catalogservice.Service, error) {
	if c.service == nil {
		return nil, catalogservice.ErrServiceNotFound
	}
	return c.service, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
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
	repo     *fakeBookingRepo
	history  *fakeHistoryRepo
	policies *fakePolicyRepo
	events   *fakeNotifier
	svc      *Service
}

func scheduledBooking() *domain.Booking {
	return &domain.Booking{
		ID:             1,
		StudentID:      100,
		MentorID:       42,
		ServiceID:      7,
		ScheduledStart: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		ScheduledEnd:   time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
		Status:         domain.StatusScheduled,
	}
}

func newTestEnv(now time.Time, bookings ...*domain.Booking) *testEnv {
	env := &testEnv{
		repo:     newFakeBookingRepo(bookings...),
		history:  &fakeHistoryRepo{},
		policies: &fakePolicyRepo{},
		events:   &fakeNotifier{},
	}

	env.svc = NewService(
		env.repo,
		env.history,
		env.policies,
		&fakeCatalog{},
		fakeTxManager{},
		env.events,
		domain.BookingPolicy{
			MinLeadHours:            12,
			MaxAdvanceDays:          30,
			MaxReschedules:          2,
			CancellationWindowHours: 24,
			StrictCompletion:        true,
		},
		nopLogger{},
	)
	env.svc.timeProvider = fixedTime{now: now}

	return env
}

// Cancel

func TestCancelOnTime(t *testing.T) {
	// За двое суток до начала - отмена своевременная
	env := newTestEnv(time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC), scheduledBooking())

	err := env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID:   100,
		ActorRole: domain.RoleStudent,
		Reason:    "changed plans",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, env.repo.bookings[1].Status)

	require.Len(t, env.history.entries, 1)
	assert.Equal(t, domain.ActionCancelled, env.history.entries[0].Action)
	require.NotNil(t, env.history.entries[0].Reason)
	assert.Equal(t, "on_time cancellation: changed plans", *env.history.entries[0].Reason)

	assert.Equal(t, []string{notifier.KeyBookingCancelled}, env.events.keys)
}

func TestCancelLateByStudentStaysCancelled(t *testing.T) {
	// Внутри окна отмены, но политика не терминирует как неявку
	env := newTestEnv(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), scheduledBooking())

	err := env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID:   100,
		ActorRole: domain.RoleStudent,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, env.repo.bookings[1].Status)
	require.Len(t, env.history.entries, 1)
	assert.Equal(t, domain.ActionCancelled, env.history.entries[0].Action)
	assert.Equal(t, "late cancellation", *env.history.entries[0].Reason)
}

func TestCancelLateByStudentAsNoShow(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), scheduledBooking())
	env.policies.override = &domain.MentorPolicyOverride{
		MentorID:           42,
		LateCancelAsNoShow: ptr.Ptr(true),
	}

	err := env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID:   100,
		ActorRole: domain.RoleStudent,
		Reason:    "overslept",
	})
	require.NoError(t, err)

	// Поздняя самоотмена студента терминируется как неявка
	assert.Equal(t, domain.StatusNoShow, env.repo.bookings[1].Status)
	require.Len(t, env.history.entries, 1)
	assert.Equal(t, domain.ActionNoShowMarked, env.history.entries[0].Action)
	assert.Equal(t, "late cancellation: overslept", *env.history.entries[0].Reason)
	assert.Equal(t, []string{notifier.KeyBookingNoShow}, env.events.keys)
}

func TestCancelLateByMentorStaysCancelled(t *testing.T) {
	// LateCancelAsNoShow касается только самоотмены студента
	env := newTestEnv(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), scheduledBooking())
	env.policies.override = &domain.MentorPolicyOverride{
		MentorID:           42,
		LateCancelAsNoShow: ptr.Ptr(true),
	}

	err := env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID:   42,
		ActorRole: domain.RoleMentor,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, env.repo.bookings[1].Status)
	assert.Equal(t, domain.ActionCancelled, env.history.entries[0].Action)
}

func TestCancelTerminalBooking(t *testing.T) {
	booking := scheduledBooking()
	booking.Status = domain.StatusCompleted
	env := newTestEnv(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), booking)

	err := env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID:   100,
		ActorRole: domain.RoleStudent,
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, env.history.entries)
}

func TestCancelAccessDenied(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), scheduledBooking())

	err := env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID:   555,
		ActorRole: domain.RoleStudent,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

// Complete

func TestCompleteAfterSessionEnd(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), scheduledBooking())

	err := env.svc.Complete(context.Background(), 1, &models.CompleteBookingRequest{
		ActorID:     42,
		ActorRole:   domain.RoleMentor,
		MentorNotes: ptr.Ptr("covered goroutines and channels"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, env.repo.bookings[1].Status)
	require.NotNil(t, env.repo.bookings[1].MentorNotes)

	require.Len(t, env.history.entries, 1)
	assert.Equal(t, domain.ActionCompleted, env.history.entries[0].Action)
	assert.Equal(t, []string{notifier.KeyBookingCompleted}, env.events.keys)
}

func TestCompleteBeforeSessionEndStrict(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC), scheduledBooking())

	err := env.svc.Complete(context.Background(), 1, &models.CompleteBookingRequest{
		ActorID:   42,
		ActorRole: domain.RoleMentor,
	})
	assert.ErrorIs(t, err, ErrSessionNotFinished)
	assert.Equal(t, domain.StatusScheduled, env.repo.bookings[1].Status)
}

func TestCompleteByStudentDenied(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), scheduledBooking())

	err := env.svc.Complete(context.Background(), 1, &models.CompleteBookingRequest{
		ActorID:   100,
		ActorRole: domain.RoleStudent,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCompleteTerminalBooking(t *testing.T) {
	booking := scheduledBooking()
	booking.Status = domain.StatusCancelled
	env := newTestEnv(time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), booking)

	err := env.svc.Complete(context.Background(), 1, &models.CompleteBookingRequest{
		ActorID:   42,
		ActorRole: domain.RoleMentor,
	})
	assert.ErrorIs(t, err, ErrCannotComplete)
}

// MarkNoShow

func TestMarkNoShowAfterStart(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 10, 10, 15, 0, 0, time.UTC), scheduledBooking())

	err := env.svc.MarkNoShow(context.Background(), 1, &models.MarkNoShowRequest{
		ActorID:   42,
		ActorRole: domain.RoleMentor,
		Reason:    ptr.Ptr("student did not join"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNoShow, env.repo.bookings[1].Status)
	require.Len(t, env.history.entries, 1)
	assert.Equal(t, domain.ActionNoShowMarked, env.history.entries[0].Action)
	assert.Equal(t, []string{notifier.KeyBookingNoShow}, env.events.keys)
}

func TestMarkNoShowBeforeStart(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), scheduledBooking())

	err := env.svc.MarkNoShow(context.Background(), 1, &models.MarkNoShowRequest{
		ActorID:   42,
		ActorRole: domain.RoleMentor,
	})
	assert.ErrorIs(t, err, ErrSessionNotStarted)
}

func TestMarkNoShowByStudentDenied(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 10, 10, 15, 0, 0, time.UTC), scheduledBooking())

	err := env.svc.MarkNoShow(context.Background(), 1, &models.MarkNoShowRequest{
		ActorID:   100,
		ActorRole: domain.RoleStudent,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

// Чтение

func TestGetByIDAccess(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), scheduledBooking())

	// Участники видят бронирование
	_, err := env.svc.GetByID(context.Background(), 1, 100, domain.RoleStudent)
	assert.NoError(t, err)
	_, err = env.svc.GetByID(context.Background(), 1, 42, domain.RoleMentor)
	assert.NoError(t, err)

	// Администратор видит любое
	_, err = env.svc.GetByID(context.Background(), 1, 999, domain.RoleAdmin)
	assert.NoError(t, err)

	// Посторонний - нет
	_, err = env.svc.GetByID(context.Background(), 1, 555, domain.RoleStudent)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByIDNotFound(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC))

	_, err := env.svc.GetByID(context.Background(), 99, 100, domain.RoleStudent)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetHistoryReturnsEntries(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), scheduledBooking())

	require.NoError(t, env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID:   100,
		ActorRole: domain.RoleStudent,
	}))

	resp, err := env.svc.GetHistory(context.Background(), 1, 100, domain.RoleStudent)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, string(domain.ActionCancelled), resp.Entries[0].Action)
}

func TestGetStudentBookingsAccess(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), scheduledBooking())

	resp, err := env.svc.GetStudentBookings(context.Background(), &models.GetStudentBookingsRequest{
		StudentID: 100,
		ActorID:   100,
		ActorRole: domain.RoleStudent,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	_, err = env.svc.GetStudentBookings(context.Background(), &models.GetStudentBookingsRequest{
		StudentID: 100,
		ActorID:   200,
		ActorRole: domain.RoleStudent,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetMentorBookingsFiltersInactive(t *testing.T) {
	cancelled := scheduledBooking()
	cancelled.ID = 2
	cancelled.Status = domain.StatusCancelled
	env := newTestEnv(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), scheduledBooking(), cancelled)

	resp, err := env.svc.GetMentorBookings(context.Background(), &models.GetMentorBookingsRequest{
		MentorID:  42,
		ActorID:   42,
		ActorRole: domain.RoleMentor,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	resp, err = env.svc.GetMentorBookings(context.Background(), &models.GetMentorBookingsRequest{
		MentorID:        42,
		ActorID:         42,
		ActorRole:       domain.RoleMentor,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}

func TestGetMentorBookingsInvalidPeriod(t *testing.T) {
	env := newTestEnv(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC))

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	_, err := env.svc.GetMentorBookings(context.Background(), &models.GetMentorBookingsRequest{
		MentorID:  42,
		ActorID:   42,
		ActorRole: domain.RoleMentor,
		From:      &from,
		To:        &to,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
