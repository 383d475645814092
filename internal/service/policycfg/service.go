package policycfg

import (
	"context"
	"errors"
	"fmt"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	policyRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/policy"
	"github.com/mentorhub/MH-BookingEngine/internal/service/policycfg/models"
)

// Service сервис управления override'ами политики бронирования
// Override хранит только заданные поля; эффективная политика собирается
// в момент операции из дефолтов, данных каталога и override'а
type Service struct {
	policyRepo PolicyRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса политики
func NewService(policyRepository PolicyRepository, logger Logger) *Service {
	return &Service{
		policyRepo: policyRepository,
		logger:     logger,
	}
}

// GetByMentor получает все override'ы ментора (общий первым)
// Доступно самому ментору и администратору
func (s *Service) GetByMentor(ctx context.Context, mentorID int64, actorID int64, role domain.Role) (*models.OverrideListResponse, error) {
	s.logger.Info("GetByMentor: fetching overrides for mentor=%d, actor=%d", mentorID, actorID)

	if err := checkAccess(mentorID, actorID, role); err != nil {
		s.logger.Warn("GetByMentor: access denied for actor=%d to mentor=%d", actorID, mentorID)
		return nil, err
	}

	overrides, err := s.policyRepo.GetAllByMentor(ctx, mentorID)
	if err != nil {
		s.logger.Error("GetByMentor: repository error for mentor=%d: %v", mentorID, err)
		return nil, fmt.Errorf("%w: GetByMentor - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByMentor: fetched %d overrides for mentor=%d", len(overrides), mentorID)
	return models.FromDomainOverrideList(mentorID, overrides), nil
}

// Upsert создает или обновляет override для пары (mentor, service)
// Доступно самому ментору и администратору
func (s *Service) Upsert(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("Upsert: override for mentor=%d, service=%v by actor=%d", req.MentorID, req.ServiceID, req.ActorID)

	if err := checkAccess(req.MentorID, req.ActorID, req.ActorRole); err != nil {
		s.logger.Warn("Upsert: access denied for actor=%d to mentor=%d", req.ActorID, req.MentorID)
		return nil, err
	}

	if err := validateOverride(req); err != nil {
		s.logger.Warn("Upsert: validation failed for mentor=%d: %v", req.MentorID, err)
		return nil, err
	}

	override, err := s.policyRepo.Upsert(ctx, req.ToDomainOverride())
	if err != nil {
		s.logger.Error("Upsert: repository error for mentor=%d: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: saved override id=%d for mentor=%d", override.ID, req.MentorID)
	return models.FromDomainOverride(override), nil
}

// Delete удаляет override для пары (mentor, service)
// Доступно самому ментору и администратору
func (s *Service) Delete(ctx context.Context, mentorID int64, serviceID *int64, actorID int64, role domain.Role) error {
	s.logger.Info("Delete: override for mentor=%d, service=%v by actor=%d", mentorID, serviceID, actorID)

	if err := checkAccess(mentorID, actorID, role); err != nil {
		s.logger.Warn("Delete: access denied for actor=%d to mentor=%d", actorID, mentorID)
		return err
	}

	if err := s.policyRepo.Delete(ctx, mentorID, serviceID); err != nil {
		if errors.Is(err, policyRepo.ErrOverrideNotFound) {
			s.logger.Warn("Delete: override not found for mentor=%d, service=%v", mentorID, serviceID)
			return ErrOverrideNotFound
		}
		s.logger.Error("Delete: repository error for mentor=%d: %v", mentorID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: removed override for mentor=%d, service=%v", mentorID, serviceID)
	return nil
}

// Вспомогательные методы

// checkAccess разрешает операцию самому ментору и администратору
func checkAccess(mentorID, actorID int64, role domain.Role) error {
	if role.IsAdmin() || actorID == mentorID {
		return nil
	}
	return ErrAccessDenied
}

// validateOverride проверяет заданные поля override'а по бизнес-лимитам
func validateOverride(req *models.UpsertOverrideRequest) error {
	if req.MentorID <= 0 {
		return fmt.Errorf("%w: mentorID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.MinLeadHours != nil &&
		(*req.MinLeadHours < domain.MinLeadHoursLimit || *req.MinLeadHours > domain.MaxLeadHoursLimit) {
		return fmt.Errorf("%w: minLeadHours must be between %d and %d",
			ErrInvalidInput, domain.MinLeadHoursLimit, domain.MaxLeadHoursLimit)
	}

	if req.MaxAdvanceDays != nil &&
		(*req.MaxAdvanceDays < domain.MinAdvanceDaysLimit || *req.MaxAdvanceDays > domain.MaxAdvanceDaysLimit) {
		return fmt.Errorf("%w: maxAdvanceDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceDaysLimit, domain.MaxAdvanceDaysLimit)
	}

	if req.MaxReschedules != nil &&
		(*req.MaxReschedules < 0 || *req.MaxReschedules > domain.MaxReschedulesLimit) {
		return fmt.Errorf("%w: maxReschedules must be between 0 and %d",
			ErrInvalidInput, domain.MaxReschedulesLimit)
	}

	if req.CancellationWindowHours != nil &&
		(*req.CancellationWindowHours < 0 || *req.CancellationWindowHours > domain.MaxLeadHoursLimit) {
		return fmt.Errorf("%w: cancellationWindowHours must be between 0 and %d",
			ErrInvalidInput, domain.MaxLeadHoursLimit)
	}

	if req.DuplicateCooldownMinutes != nil && *req.DuplicateCooldownMinutes < 0 {
		return fmt.Errorf("%w: duplicateCooldownMinutes must not be negative", ErrInvalidInput)
	}

	return nil
}
