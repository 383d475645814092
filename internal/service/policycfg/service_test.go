package policycfg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	policyRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/policy"
	"github.com/mentorhub/MH-BookingEngine/internal/service/policycfg/models"
	"github.com/mentorhub/MH-BookingEngine/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakePolicyRepo struct {
	overrides map[int64]*domain.MentorPolicyOverride
	nextID    int64
}

func newFakePolicyRepo() *fakePolicyRepo {
	return &fakePolicyRepo{overrides: make(map[int64]*domain.MentorPolicyOverride)}
}

func sameService(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *fakePolicyRepo) Upsert(_ context.Context, override *domain.MentorPolicyOverride) (*domain.MentorPolicyOverride, error) {
	for _, existing := range r.overrides {
		if existing.MentorID == override.MentorID && sameService(existing.ServiceID, override.ServiceID) {
			override.ID = existing.ID
			override.CreatedAt = existing.CreatedAt
			override.UpdatedAt = time.Now()
			r.overrides[existing.ID] = override
			return override, nil
		}
	}

	r.nextID++
	override.ID = r.nextID
	override.CreatedAt = time.Now()
	override.UpdatedAt = override.CreatedAt
	r.overrides[override.ID] = override
	return override, nil
}

func (r *fakePolicyRepo) GetByMentorAndService(_ context.Context, mentorID int64, serviceID *int64) (*domain.MentorPolicyOverride, error) {
	for _, existing := range r.overrides {
		if existing.MentorID == mentorID && sameService(existing.ServiceID, serviceID) {
			return existing, nil
		}
	}
	return nil, policyRepo.ErrOverrideNotFound
}

func (r *fakePolicyRepo) GetAllByMentor(_ context.Context, mentorID int64) ([]*domain.MentorPolicyOverride, error) {
	result := make([]*domain.MentorPolicyOverride, 0)
	for _, existing := range r.overrides {
		if existing.MentorID == mentorID {
			result = append(result, existing)
		}
	}
	return result, nil
}

func (r *fakePolicyRepo) Delete(_ context.Context, mentorID int64, serviceID *int64) error {
	for id, existing := range r.overrides {
		if existing.MentorID == mentorID && sameService(existing.ServiceID, serviceID) {
			delete(r.overrides, id)
			return nil
		}
	}
	return policyRepo.ErrOverrideNotFound
}

func validUpsertRequest() *models.UpsertOverrideRequest {
	return &models.UpsertOverrideRequest{
		MentorID:     42,
		ActorID:      42,
		ActorRole:    domain.RoleMentor,
		MinLeadHours: ptr.Ptr(24),
	}
}

func TestUpsertCreatesOverride(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.MentorID)
	assert.Nil(t, resp.ServiceID)
	require.NotNil(t, resp.MinLeadHours)
	assert.Equal(t, 24, *resp.MinLeadHours)
}

func TestUpsertUpdatesExisting(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nopLogger{})

	first, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.NoError(t, err)

	req := validUpsertRequest()
	req.MinLeadHours = ptr.Ptr(48)
	second, err := svc.Upsert(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 48, *second.MinLeadHours)
	assert.Len(t, repo.overrides, 1)
}

func TestUpsertSeparateServiceOverride(t *testing.T) {
	// Общий override и override конкретной услуги живут независимо
	repo := newFakePolicyRepo()
	svc := NewService(repo, nopLogger{})

	_, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.NoError(t, err)

	req := validUpsertRequest()
	req.ServiceID = ptr.Ptr(int64(7))
	_, err = svc.Upsert(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, repo.overrides, 2)
}

func TestUpsertAccess(t *testing.T) {
	svc := NewService(newFakePolicyRepo(), nopLogger{})

	// Чужой ментор
	req := validUpsertRequest()
	req.ActorID = 555
	_, err := svc.Upsert(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Администратор может менять любого ментора
	req = validUpsertRequest()
	req.ActorID = 999
	req.ActorRole = domain.RoleAdmin
	_, err = svc.Upsert(context.Background(), req)
	assert.NoError(t, err)
}

func TestUpsertValidation(t *testing.T) {
	svc := NewService(newFakePolicyRepo(), nopLogger{})

	cases := []struct {
		name   string
		mutate func(req *models.UpsertOverrideRequest)
	}{
		{"non-positive mentor", func(req *models.UpsertOverrideRequest) {
			req.MentorID = 0
			req.ActorID = 999
			req.ActorRole = domain.RoleAdmin
		}},
		{"non-positive service", func(req *models.UpsertOverrideRequest) {
			req.ServiceID = ptr.Ptr(int64(0))
		}},
		{"lead hours above limit", func(req *models.UpsertOverrideRequest) {
			req.MinLeadHours = ptr.Ptr(169)
		}},
		{"negative lead hours", func(req *models.UpsertOverrideRequest) {
			req.MinLeadHours = ptr.Ptr(-1)
		}},
		{"advance days above limit", func(req *models.UpsertOverrideRequest) {
			req.MaxAdvanceDays = ptr.Ptr(366)
		}},
		{"negative advance days", func(req *models.UpsertOverrideRequest) {
			req.MaxAdvanceDays = ptr.Ptr(-1)
		}},
		{"reschedules above limit", func(req *models.UpsertOverrideRequest) {
			req.MaxReschedules = ptr.Ptr(11)
		}},
		{"negative reschedules", func(req *models.UpsertOverrideRequest) {
			req.MaxReschedules = ptr.Ptr(-1)
		}},
		{"cancellation window above limit", func(req *models.UpsertOverrideRequest) {
			req.CancellationWindowHours = ptr.Ptr(169)
		}},
		{"negative cooldown", func(req *models.UpsertOverrideRequest) {
			req.DuplicateCooldownMinutes = ptr.Ptr(-5)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validUpsertRequest()
			tc.mutate(req)
			_, err := svc.Upsert(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpsertBoundaryValuesAccepted(t *testing.T) {
	svc := NewService(newFakePolicyRepo(), nopLogger{})

	req := validUpsertRequest()
	req.MinLeadHours = ptr.Ptr(168)
	req.MaxAdvanceDays = ptr.Ptr(365)
	req.MaxReschedules = ptr.Ptr(10)
	req.CancellationWindowHours = ptr.Ptr(0)
	req.DuplicateCooldownMinutes = ptr.Ptr(0)

	_, err := svc.Upsert(context.Background(), req)
	assert.NoError(t, err)
}

func TestGetByMentor(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nopLogger{})

	_, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.NoError(t, err)

	resp, err := svc.GetByMentor(context.Background(), 42, 42, domain.RoleMentor)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.MentorID)
	assert.Len(t, resp.Overrides, 1)

	// Посторонний актор не видит настройки
	_, err = svc.GetByMentor(context.Background(), 42, 555, domain.RoleMentor)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Администратор видит
	_, err = svc.GetByMentor(context.Background(), 42, 999, domain.RoleAdmin)
	assert.NoError(t, err)
}

func TestGetByMentorEmpty(t *testing.T) {
	svc := NewService(newFakePolicyRepo(), nopLogger{})

	resp, err := svc.GetByMentor(context.Background(), 42, 42, domain.RoleMentor)
	require.NoError(t, err)
	assert.Empty(t, resp.Overrides)
}

func TestDeleteOverride(t *testing.T) {
	repo := newFakePolicyRepo()
	svc := NewService(repo, nopLogger{})

	_, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), 42, nil, 42, domain.RoleMentor)
	require.NoError(t, err)
	assert.Empty(t, repo.overrides)
}

func TestDeleteNotFound(t *testing.T) {
	svc := NewService(newFakePolicyRepo(), nopLogger{})

	err := svc.Delete(context.Background(), 42, ptr.Ptr(int64(7)), 42, domain.RoleMentor)
	assert.ErrorIs(t, err, ErrOverrideNotFound)
}

func TestDeleteAccessDenied(t *testing.T) {
	svc := NewService(newFakePolicyRepo(), nopLogger{})

	err := svc.Delete(context.Background(), 42, nil, 555, domain.RoleStudent)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
