package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	bookingRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/booking"
	policyRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/policy"
	availabilityClient "github.com/mentorhub/MH-BookingEngine/internal/integrations/availabilityservice"
	catalogClient "github.com/mentorhub/MH-BookingEngine/internal/integrations/catalogservice"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/notifier"
	"github.com/mentorhub/MH-BookingEngine/pkg/ptr"
)

// UseCase use case переноса бронирования
// Перенос реализован как supersede-and-recreate: исходная строка получает
// статус rescheduled и ссылку superseded_by, преемник создаётся новой
// строкой со счётчиком переносов +1. Оба действия и две записи аудита
// фиксируются одной сериализуемой транзакцией
type UseCase struct {
	bookingRepo        BookingRepository
	historyRepo        HistoryRepository
	policyRepo         PolicyRepository
	catalogClient      CatalogServiceClient
	availabilityClient AvailabilityServiceClient
	txManager          TransactionManager
	events             Notifier
	policyDefaults     domain.BookingPolicy
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepository BookingRepository,
	historyRepo HistoryRepository,
	policyRepository PolicyRepository,
	catalogClient CatalogServiceClient,
	availabilityClient AvailabilityServiceClient,
	txManager TransactionManager,
	events Notifier,
	policyDefaults domain.BookingPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:        bookingRepository,
		historyRepo:        historyRepo,
		policyRepo:         policyRepository,
		catalogClient:      catalogClient,
		availabilityClient: availabilityClient,
		txManager:          txManager,
		events:             events,
		policyDefaults:     policyDefaults,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, actor=%d, newStart=%s",
		req.BookingID, req.ActorID, req.NewStart.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now().UTC()
	newStart := req.NewStart.UTC()

	// 3. Получаем исходное бронирование (без блокировки, для быстрых отказов)
	original, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 4. Проверка прав актора
	if !canReschedule(original, req.ActorID, req.ActorRole) {
		uc.logger.Warn("RescheduleBooking: actor id=%d denied for booking id=%d", req.ActorID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// 5. Переносить можно только активное бронирование
	if !original.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%d in status %s", req.BookingID, original.Status)
		return nil, ErrInvalidState
	}

	// 6. Получаем услугу из каталога (длительность и лимиты)
	service, err := uc.catalogClient.GetService(ctx, original.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("RescheduleBooking: service id=%d not found", original.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get service id=%d: %v", original.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	newEnd := newStart.Add(time.Duration(service.DurationMinutes) * time.Minute)

	// 7. Собираем эффективную политику
	policy := uc.policyDefaults
	policy.ApplyServiceLimits(service.MinLeadHours, service.MaxAdvanceDays, service.MaxReschedules)

	override, err := uc.policyRepo.GetWithHierarchy(ctx, original.MentorID, ptr.Ptr(original.ServiceID))
	if err != nil && !errors.Is(err, policyRepo.ErrOverrideNotFound) {
		uc.logger.Error("RescheduleBooking: failed to get policy override: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy override: %v", ErrInternal, err)
	}
	if override != nil {
		override.ApplyTo(&policy)
	}

	// 8. Лимит переносов цепочки
	if !policy.RescheduleAllowed(original.RescheduleCount) {
		uc.logger.Warn("RescheduleBooking: booking id=%d reached reschedule limit %d",
			req.BookingID, policy.MaxReschedules)
		return nil, fmt.Errorf("%w: at most %d reschedules", ErrRescheduleLimitExceeded, policy.MaxReschedules)
	}

	// 9. Минимальный срок относительно ИСХОДНОГО начала: слишком близко
	// к сессии её уже нельзя трогать
	if !policy.LeadTimeSatisfied(now, original.ScheduledStart) {
		uc.logger.Warn("RescheduleBooking: booking id=%d starts too soon to reschedule", req.BookingID)
		return nil, fmt.Errorf("%w: original session starts within %d hours", ErrLeadTimeViolation, policy.MinLeadHours)
	}

	// 10. Новое начало проходит те же проверки, что и создание
	if !policy.LeadTimeSatisfied(now, newStart) {
		uc.logger.Warn("RescheduleBooking: new start %s violates lead time", newStart.Format(time.RFC3339))
		return nil, fmt.Errorf("%w: at least %d hours before new start", ErrLeadTimeViolation, policy.MinLeadHours)
	}

	if !policy.WithinAdvanceWindow(now, newStart) {
		uc.logger.Warn("RescheduleBooking: new start %s beyond advance window", newStart.Format(time.RFC3339))
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.MaxAdvanceDays)
	}

	windows, err := uc.availabilityClient.GetWindows(ctx, original.MentorID)
	if err != nil {
		if errors.Is(err, availabilityClient.ErrMentorNotFound) {
			uc.logger.Warn("RescheduleBooking: mentor id=%d not found", original.MentorID)
			return nil, fmt.Errorf("%w: mentor not found: %v", ErrInternal, err)
		}
		uc.logger.Error("RescheduleBooking: failed to get windows: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability windows: %v", ErrInternal, err)
	}

	if !withinAvailability(windows, newStart, newEnd, uc.logger) {
		uc.logger.Warn("RescheduleBooking: interval [%s, %s) outside mentor id=%d availability",
			newStart.Format(time.RFC3339), newEnd.Format(time.RFC3339), original.MentorID)
		return nil, ErrOutsideAvailability
	}

	// Переменные для хранения результата
	var successor *domain.Booking

	// 11. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 11.1. Перечитываем бронирование с блокировкой строки
		current, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to lock booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to lock booking: %w", ErrInternal, err)
		}

		// Конкурентный переход мог опередить нас
		if !current.CanBeRescheduled() {
			return ErrInvalidState
		}

		// 11.2. Проверка пересечений, исключая заменяемое бронирование
		overlapping, err := uc.bookingRepo.GetOverlappingScheduled(txCtx, current.MentorID, newStart, newEnd, ptr.Ptr(current.ID))
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %w", ErrInternal, err)
		}

		if len(overlapping) > 0 {
			uc.logger.Warn("RescheduleBooking: interval [%s, %s) conflicts with booking id=%d",
				newStart.Format(time.RFC3339), newEnd.Format(time.RFC3339), overlapping[0].ID)
			return ErrSlotNotAvailable
		}

		// 11.3. Создаем преемника со счётчиком переносов +1
		booking := &domain.Booking{
			StudentID:       current.StudentID,
			MentorID:        current.MentorID,
			ServiceID:       current.ServiceID,
			ScheduledStart:  newStart,
			ScheduledEnd:    newEnd,
			Status:          domain.StatusScheduled,
			RescheduleCount: current.RescheduleCount + 1,
			StudentNotes:    current.StudentNotes,
			MentorNotes:     current.MentorNotes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to create successor: %v", err)
			return fmt.Errorf("%w: failed to create successor: %w", ErrInternal, err)
		}

		// 11.4. Помечаем исходное бронирование перенесённым
		if err := uc.bookingRepo.MarkRescheduled(txCtx, current.ID, created.ID); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidState) {
				return ErrInvalidState
			}
			uc.logger.Error("RescheduleBooking: failed to mark booking id=%d rescheduled: %v", current.ID, err)
			return fmt.Errorf("%w: failed to mark rescheduled: %w", ErrInternal, err)
		}

		// 11.5. Две записи аудита; created_at обеих - время транзакции
		oldEntry := &domain.BookingHistoryEntry{
			BookingID:      current.ID,
			Action:         domain.ActionRescheduled,
			ActorID:        req.ActorID,
			PreviousStatus: ptr.Ptr(domain.StatusScheduled),
			NewStatus:      domain.StatusRescheduled,
			Reason:         req.Reason,
		}

		if _, err := uc.historyRepo.Append(txCtx, oldEntry); err != nil {
			uc.logger.Error("RescheduleBooking: failed to append history for booking id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to append history: %w", ErrInternal, err)
		}

		newEntry := &domain.BookingHistoryEntry{
			BookingID: created.ID,
			Action:    domain.ActionCreated,
			ActorID:   req.ActorID,
			NewStatus: domain.StatusScheduled,
			Reason:    ptr.Ptr(fmt.Sprintf("rescheduled from booking %d", current.ID)),
		}

		if _, err := uc.historyRepo.Append(txCtx, newEntry); err != nil {
			uc.logger.Error("RescheduleBooking: failed to append history for booking id=%d: %v", created.ID, err)
			return fmt.Errorf("%w: failed to append history: %w", ErrInternal, err)
		}

		successor = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking id=%d superseded by id=%d", req.BookingID, successor.ID)

	// 12. Событие после коммита, fire-and-forget
	superseded := *original
	superseded.Status = domain.StatusRescheduled
	superseded.SupersededBy = ptr.Ptr(successor.ID)
	uc.events.PublishAsync(notifier.KeyBookingRescheduled, &superseded, req.ActorID, req.Reason)

	return &Response{
		ID:              successor.ID,
		PreviousID:      req.BookingID,
		StudentID:       successor.StudentID,
		MentorID:        successor.MentorID,
		ServiceID:       successor.ServiceID,
		ScheduledStart:  successor.ScheduledStart,
		ScheduledEnd:    successor.ScheduledEnd,
		Status:          string(successor.Status),
		RescheduleCount: successor.RescheduleCount,
		StudentNotes:    successor.StudentNotes,
		CreatedAt:       successor.CreatedAt,
		UpdatedAt:       successor.UpdatedAt,
	}, nil
}
