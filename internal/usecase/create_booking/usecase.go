package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	policyRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/policy"
	availabilityClient "github.com/mentorhub/MH-BookingEngine/internal/integrations/availabilityservice"
	catalogClient "github.com/mentorhub/MH-BookingEngine/internal/integrations/catalogservice"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/notifier"
	"github.com/mentorhub/MH-BookingEngine/pkg/ptr"
)

// UseCase use case для создания бронирования
// Проверка пересечений и вставка выполняются в сериализуемой транзакции:
// из конкурентных попыток занять пересекающиеся интервалы фиксируется
// ровно одна, остальные получают ErrSlotNotAvailable
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
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	policyRepo PolicyRepository,
	catalogClient CatalogServiceClient,
	availabilityClient AvailabilityServiceClient,
	txManager TransactionManager,
	events Notifier,
	policyDefaults domain.BookingPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:        bookingRepo,
		historyRepo:        historyRepo,
		policyRepo:         policyRepo,
		catalogClient:      catalogClient,
		availabilityClient: availabilityClient,
		txManager:          txManager,
		events:             events,
		policyDefaults:     policyDefaults,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute выполняет use case создания бронирования
// Порядок проверок фиксирован: услуга -> срок до начала -> горизонт ->
// окно доступности -> дубликат -> атомарная проверка пересечений и вставка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: student=%d, mentor=%d, service=%d, start=%s",
		req.StudentID, req.MentorID, req.ServiceID, req.Start.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now().UTC()
	start := req.Start.UTC()

	// 3. Получаем услугу из каталога
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.MentorID != req.MentorID {
		uc.logger.Warn("CreateBooking: service id=%d belongs to mentor id=%d, not %d",
			req.ServiceID, service.MentorID, req.MentorID)
		return nil, ErrServiceNotFound
	}

	if !service.Active {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)

	// 4. Собираем эффективную политику: дефолты <- каталог <- override ментора
	policy := uc.policyDefaults
	policy.ApplyServiceLimits(service.MinLeadHours, service.MaxAdvanceDays, service.MaxReschedules)

	override, err := uc.policyRepo.GetWithHierarchy(ctx, req.MentorID, ptr.Ptr(req.ServiceID))
	if err != nil && !errors.Is(err, policyRepo.ErrOverrideNotFound) {
		uc.logger.Error("CreateBooking: failed to get policy override: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy override: %v", ErrInternal, err)
	}
	if override != nil {
		override.ApplyTo(&policy)
	}

	// 5. Минимальный срок до начала сессии
	if !policy.LeadTimeSatisfied(now, start) {
		uc.logger.Warn("CreateBooking: lead time violation, start=%s, min lead=%dh",
			start.Format(time.RFC3339), policy.MinLeadHours)
		return nil, fmt.Errorf("%w: at least %d hours before start", ErrLeadTimeViolation, policy.MinLeadHours)
	}

	// 6. Горизонт планирования
	if !policy.WithinAdvanceWindow(now, start) {
		uc.logger.Warn("CreateBooking: start=%s beyond advance window of %d days",
			start.Format(time.RFC3339), policy.MaxAdvanceDays)
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.MaxAdvanceDays)
	}

	// 7. Интервал должен попадать в окна доступности ментора
	windows, err := uc.availabilityClient.GetWindows(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, availabilityClient.ErrMentorNotFound) {
			uc.logger.Warn("CreateBooking: mentor id=%d not found", req.MentorID)
			return nil, ErrMentorNotFound
		}
		uc.logger.Error("CreateBooking: failed to get windows for mentor id=%d: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: failed to get availability windows: %v", ErrInternal, err)
	}

	if !withinAvailability(windows, start, end, uc.logger) {
		uc.logger.Warn("CreateBooking: interval [%s, %s) outside mentor id=%d availability",
			start.Format(time.RFC3339), end.Format(time.RFC3339), req.MentorID)
		return nil, ErrOutsideAvailability
	}

	// 8. Проверка дубликата (включается политикой)
	cooldownStart := now.Add(-time.Duration(policy.DuplicateCooldownMinutes) * time.Minute)
	if policy.DuplicateCheckEnabled() {
		hasDuplicate, err := uc.bookingRepo.HasScheduledForService(ctx, req.StudentID, req.ServiceID, cooldownStart)
		if err != nil {
			uc.logger.Error("CreateBooking: duplicate check failed: %v", err)
			return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrInternal, err)
		}
		if hasDuplicate {
			uc.logger.Warn("CreateBooking: student id=%d already holds a scheduled booking for service id=%d",
				req.StudentID, req.ServiceID)
			return nil, ErrDuplicateBooking
		}
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 9. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Повторная проверка дубликата на актуальном состоянии ledger'а
		if policy.DuplicateCheckEnabled() {
			hasDuplicate, err := uc.bookingRepo.HasScheduledForService(txCtx, req.StudentID, req.ServiceID, cooldownStart)
			if err != nil {
				uc.logger.Error("CreateBooking: duplicate re-check failed: %v", err)
				return fmt.Errorf("%w: duplicate re-check failed: %w", ErrInternal, err)
			}
			if hasDuplicate {
				return ErrDuplicateBooking
			}
		}

		// 9.2. Проверка пересечений с блокировкой строк (FOR UPDATE)
		overlapping, err := uc.bookingRepo.GetOverlappingScheduled(txCtx, req.MentorID, start, end, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %w", ErrInternal, err)
		}

		if len(overlapping) > 0 {
			uc.logger.Warn("CreateBooking: interval [%s, %s) conflicts with booking id=%d",
				start.Format(time.RFC3339), end.Format(time.RFC3339), overlapping[0].ID)
			return ErrSlotNotAvailable
		}

		// 9.3. Создаем бронирование
		booking := &domain.Booking{
			StudentID:       req.StudentID,
			MentorID:        req.MentorID,
			ServiceID:       req.ServiceID,
			ScheduledStart:  start,
			ScheduledEnd:    end,
			Status:          domain.StatusScheduled,
			RescheduleCount: 0,
			StudentNotes:    req.StudentNotes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 9.4. Запись аудита в той же транзакции
		entry := &domain.BookingHistoryEntry{
			BookingID: created.ID,
			Action:    domain.ActionCreated,
			ActorID:   req.StudentID,
			NewStatus: domain.StatusScheduled,
		}

		if _, err := uc.historyRepo.Append(txCtx, entry); err != nil {
			uc.logger.Error("CreateBooking: failed to append history: %v", err)
			return fmt.Errorf("%w: failed to append history: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 10. Событие после коммита, fire-and-forget
	uc.events.PublishAsync(notifier.KeyBookingCreated, result, req.StudentID, nil)

	return &Response{
		ID:              result.ID,
		StudentID:       result.StudentID,
		MentorID:        result.MentorID,
		ServiceID:       result.ServiceID,
		ScheduledStart:  result.ScheduledStart,
		ScheduledEnd:    result.ScheduledEnd,
		Status:          string(result.Status),
		RescheduleCount: result.RescheduleCount,
		StudentNotes:    result.StudentNotes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
