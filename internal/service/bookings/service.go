package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	bookingRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/booking"
	policyRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/policy"
	catalogClient "github.com/mentorhub/MH-BookingEngine/internal/integrations/catalogservice"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/notifier"
	"github.com/mentorhub/MH-BookingEngine/internal/service/bookings/models"
	"github.com/mentorhub/MH-BookingEngine/pkg/ptr"
)

// Service сервис жизненного цикла бронирований: чтение, отмена,
// завершение и отметка неявки
// Каждый успешный переход дописывает запись аудита в той же транзакции
// и публикует событие после коммита
type Service struct {
	bookingRepo    BookingRepository
	historyRepo    HistoryRepository
	policyRepo     PolicyRepository
	catalogClient  CatalogServiceClient
	txManager      TransactionManager
	events         Notifier
	policyDefaults domain.BookingPolicy
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepository BookingRepository,
	historyRepo HistoryRepository,
	policyRepository PolicyRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	events Notifier,
	policyDefaults domain.BookingPolicy,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepository,
		historyRepo:    historyRepo,
		policyRepo:     policyRepository,
		catalogClient:  catalogClient,
		txManager:      txManager,
		events:         events,
		policyDefaults: policyDefaults,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// GetByID получает бронирование по ID
// Доступно студенту бронирования, его ментору и администратору
func (s *Service) GetByID(ctx context.Context, id int64, actorID int64, role domain.Role) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d", id, actorID)

	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if !canView(booking, actorID, role) {
		s.logger.Warn("GetByID: access denied for actor=%d to booking id=%d", actorID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetHistory получает историю переходов бронирования
// Правила доступа те же, что и у самого бронирования
func (s *Service) GetHistory(ctx context.Context, bookingID int64, actorID int64, role domain.Role) (*models.HistoryListResponse, error) {
	s.logger.Info("GetHistory: fetching history for booking id=%d, actor=%d", bookingID, actorID)

	booking, err := s.getBooking(ctx, bookingID, "GetHistory")
	if err != nil {
		return nil, err
	}

	if !canView(booking, actorID, role) {
		s.logger.Warn("GetHistory: access denied for actor=%d to booking id=%d", actorID, bookingID)
		return nil, ErrAccessDenied
	}

	entries, err := s.historyRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("GetHistory: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetHistory - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetHistory: fetched %d entries for booking id=%d", len(entries), bookingID)
	return models.FromDomainHistoryList(bookingID, entries), nil
}

// GetStudentBookings получает бронирования студента
// Доступно самому студенту и администратору
func (s *Service) GetStudentBookings(ctx context.Context, req *models.GetStudentBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetStudentBookings: student=%d, actor=%d, status=%v", req.StudentID, req.ActorID, req.Status)

	if req.ActorID != req.StudentID && !req.ActorRole.IsAdmin() {
		s.logger.Warn("GetStudentBookings: access denied for actor=%d to student=%d", req.ActorID, req.StudentID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetStudentBookings: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByStudentID(ctx, req.StudentID, domainStatus)
	if err != nil {
		s.logger.Error("GetStudentBookings: repository error for student=%d: %v", req.StudentID, err)
		return nil, fmt.Errorf("%w: GetStudentBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStudentBookings: fetched %d bookings for student=%d", len(bookings), req.StudentID)
	return models.FromDomainBookingList(bookings), nil
}

// GetMentorBookings получает бронирования ментора с фильтрацией
// по периоду и статусу
// Доступно самому ментору и администратору
func (s *Service) GetMentorBookings(ctx context.Context, req *models.GetMentorBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetMentorBookings: mentor=%d, actor=%d", req.MentorID, req.ActorID)

	if req.ActorID != req.MentorID && !req.ActorRole.IsAdmin() {
		s.logger.Warn("GetMentorBookings: access denied for actor=%d to mentor=%d", req.ActorID, req.MentorID)
		return nil, ErrAccessDenied
	}

	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		s.logger.Warn("GetMentorBookings: invalid period for mentor=%d", req.MentorID)
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetMentorBookings: invalid filter for mentor=%d: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByMentorWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetMentorBookings: repository error for mentor=%d: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: GetMentorBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetMentorBookings: fetched %d bookings for mentor=%d", len(bookings), req.MentorID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Отмена классифицируется политикой как своевременная или поздняя
// относительно окна отмены; поздняя самоотмена студента терминируется
// как no_show, если так настроена политика. Классификация в любом случае
// попадает в запись аудита
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by actor=%d", bookingID, req.ActorID)

	if len(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	booking, err := s.getBooking(ctx, bookingID, "Cancel")
	if err != nil {
		return err
	}

	if !canView(booking, req.ActorID, req.ActorRole) {
		s.logger.Warn("Cancel: access denied for actor=%d to booking id=%d", req.ActorID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	now := s.timeProvider.Now().UTC()
	policy := s.effectivePolicy(ctx, booking.MentorID, booking.ServiceID)
	class := policy.ClassifyCancellation(now, booking.ScheduledStart)

	// Поздняя самоотмена студента может терминироваться как неявка
	targetStatus := domain.StatusCancelled
	action := domain.ActionCancelled
	isSelfCancel := req.ActorID == booking.StudentID && !req.ActorRole.IsAdmin()
	if class == domain.CancellationLate && isSelfCancel && policy.LateCancelAsNoShow {
		targetStatus = domain.StatusNoShow
		action = domain.ActionNoShowMarked
	}

	historyReason := fmt.Sprintf("%s cancellation", class)
	if req.Reason != "" {
		historyReason = fmt.Sprintf("%s cancellation: %s", class, req.Reason)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Cancel(txCtx, bookingID, targetStatus, req.Reason); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidState) {
				return ErrCannotCancel
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		entry := &domain.BookingHistoryEntry{
			BookingID:      bookingID,
			Action:         action,
			ActorID:        req.ActorID,
			PreviousStatus: ptr.Ptr(domain.StatusScheduled),
			NewStatus:      targetStatus,
			Reason:         &historyReason,
		}

		if _, err := s.historyRepo.Append(txCtx, entry); err != nil {
			s.logger.Error("Cancel: failed to append history for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - failed to append history: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Cancel: booking id=%d cancelled with status=%s (%s)", bookingID, targetStatus, class)

	cancelled := *booking
	cancelled.Status = targetStatus
	cancelled.CancellationReason = &req.Reason
	cancelled.CancelledAt = &now

	key := notifier.KeyBookingCancelled
	if targetStatus == domain.StatusNoShow {
		key = notifier.KeyBookingNoShow
	}
	s.events.PublishAsync(key, &cancelled, req.ActorID, &historyReason)

	return nil
}

// Complete завершает бронирование
// Доступно ментору бронирования и администратору; при строгом режиме
// завершение возможно только после конца сессии
func (s *Service) Complete(ctx context.Context, bookingID int64, req *models.CompleteBookingRequest) error {
	s.logger.Info("Complete: completing booking id=%d by actor=%d", bookingID, req.ActorID)

	if req.MentorNotes != nil && len(*req.MentorNotes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: mentorNotes exceeds %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	booking, err := s.getBooking(ctx, bookingID, "Complete")
	if err != nil {
		return err
	}

	if !canManage(booking, req.ActorID, req.ActorRole) {
		s.logger.Warn("Complete: access denied for actor=%d to booking id=%d", req.ActorID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCompleted() {
		s.logger.Warn("Complete: booking id=%d cannot be completed, status=%s", bookingID, booking.Status)
		return ErrCannotComplete
	}

	now := s.timeProvider.Now().UTC()
	policy := s.effectivePolicy(ctx, booking.MentorID, booking.ServiceID)

	if policy.StrictCompletion && now.Before(booking.ScheduledEnd) {
		s.logger.Warn("Complete: booking id=%d session ends at %s, now=%s",
			bookingID, booking.ScheduledEnd.Format(time.RFC3339), now.Format(time.RFC3339))
		return ErrSessionNotFinished
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Complete(txCtx, bookingID, req.MentorNotes); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidState) {
				return ErrCannotComplete
			}
			s.logger.Error("Complete: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		entry := &domain.BookingHistoryEntry{
			BookingID:      bookingID,
			Action:         domain.ActionCompleted,
			ActorID:        req.ActorID,
			PreviousStatus: ptr.Ptr(domain.StatusScheduled),
			NewStatus:      domain.StatusCompleted,
		}

		if _, err := s.historyRepo.Append(txCtx, entry); err != nil {
			s.logger.Error("Complete: failed to append history for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Complete - failed to append history: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Complete: booking id=%d completed", bookingID)

	completed := *booking
	completed.Status = domain.StatusCompleted
	completed.MentorNotes = req.MentorNotes
	s.events.PublishAsync(notifier.KeyBookingCompleted, &completed, req.ActorID, nil)

	return nil
}

// MarkNoShow отмечает неявку студента
// Доступно ментору бронирования и администратору, только после начала сессии
func (s *Service) MarkNoShow(ctx context.Context, bookingID int64, req *models.MarkNoShowRequest) error {
	s.logger.Info("MarkNoShow: marking booking id=%d by actor=%d", bookingID, req.ActorID)

	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	booking, err := s.getBooking(ctx, bookingID, "MarkNoShow")
	if err != nil {
		return err
	}

	if !canManage(booking, req.ActorID, req.ActorRole) {
		s.logger.Warn("MarkNoShow: access denied for actor=%d to booking id=%d", req.ActorID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("MarkNoShow: booking id=%d not in scheduled state, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	now := s.timeProvider.Now().UTC()
	if now.Before(booking.ScheduledStart) {
		s.logger.Warn("MarkNoShow: booking id=%d starts at %s, now=%s",
			bookingID, booking.ScheduledStart.Format(time.RFC3339), now.Format(time.RFC3339))
		return ErrSessionNotStarted
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.MarkNoShow(txCtx, bookingID, req.Reason); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidState) {
				return ErrCannotCancel
			}
			s.logger.Error("MarkNoShow: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: MarkNoShow - repository error: %v", ErrInternal, err)
		}

		entry := &domain.BookingHistoryEntry{
			BookingID:      bookingID,
			Action:         domain.ActionNoShowMarked,
			ActorID:        req.ActorID,
			PreviousStatus: ptr.Ptr(domain.StatusScheduled),
			NewStatus:      domain.StatusNoShow,
			Reason:         req.Reason,
		}

		if _, err := s.historyRepo.Append(txCtx, entry); err != nil {
			s.logger.Error("MarkNoShow: failed to append history for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: MarkNoShow - failed to append history: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("MarkNoShow: booking id=%d marked as no_show", bookingID)

	marked := *booking
	marked.Status = domain.StatusNoShow
	marked.CancellationReason = req.Reason
	s.events.PublishAsync(notifier.KeyBookingNoShow, &marked, req.ActorID, req.Reason)

	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, id int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// effectivePolicy собирает политику: дефолты <- каталог <- override ментора
// Недоступность каталога не блокирует переходы: в этом случае действуют
// дефолты и override
func (s *Service) effectivePolicy(ctx context.Context, mentorID, serviceID int64) domain.BookingPolicy {
	policy := s.policyDefaults

	service, err := s.catalogClient.GetService(ctx, serviceID)
	if err != nil {
		if !errors.Is(err, catalogClient.ErrServiceNotFound) {
			s.logger.Warn("effectivePolicy: failed to get service id=%d: %v", serviceID, err)
		}
	} else {
		policy.ApplyServiceLimits(service.MinLeadHours, service.MaxAdvanceDays, service.MaxReschedules)
	}

	override, err := s.policyRepo.GetWithHierarchy(ctx, mentorID, ptr.Ptr(serviceID))
	if err != nil {
		if !errors.Is(err, policyRepo.ErrOverrideNotFound) {
			s.logger.Warn("effectivePolicy: failed to get override for mentor id=%d: %v", mentorID, err)
		}
		return policy
	}
	override.ApplyTo(&policy)

	return policy
}

// canView проверяет право видеть бронирование и инициировать отмену
func canView(booking *domain.Booking, actorID int64, role domain.Role) bool {
	if role.IsAdmin() {
		return true
	}
	return actorID == booking.StudentID || actorID == booking.MentorID
}

// canManage проверяет право завершать бронирование и отмечать неявку
func canManage(booking *domain.Booking, actorID int64, role domain.Role) bool {
	if role.IsAdmin() {
		return true
	}
	return actorID == booking.MentorID
}
