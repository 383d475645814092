package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	policyRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/policy"
	availabilityClient "github.com/mentorhub/MH-BookingEngine/internal/integrations/availabilityservice"
	catalogClient "github.com/mentorhub/MH-BookingEngine/internal/integrations/catalogservice"
	"github.com/mentorhub/MH-BookingEngine/pkg/ptr"
)

// UseCase use case расчёта доступных слотов ментора
// Чистое чтение: результат советующий, окончательную проверку конфликтов
// выполняет создание бронирования в сериализуемой транзакции
type UseCase struct {
	bookingRepo        BookingRepository
	policyRepo         PolicyRepository
	catalogClient      CatalogServiceClient
	availabilityClient AvailabilityServiceClient
	policyDefaults     domain.BookingPolicy
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	policyRepo PolicyRepository,
	catalogClient CatalogServiceClient,
	availabilityClient AvailabilityServiceClient,
	policyDefaults domain.BookingPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:        bookingRepo,
		policyRepo:         policyRepo,
		catalogClient:      catalogClient,
		availabilityClient: availabilityClient,
		policyDefaults:     policyDefaults,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute выполняет расчёт доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: mentor=%d, service=%d, from=%s, to=%s",
		req.MentorID, req.ServiceID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now().UTC()

	// 3. Получаем услугу из каталога
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Услуга другого ментора для запрашивающего не существует
	if service.MentorID != req.MentorID {
		uc.logger.Warn("GetAvailableSlots: service id=%d belongs to mentor id=%d, not %d",
			req.ServiceID, service.MentorID, req.MentorID)
		return nil, ErrServiceNotFound
	}

	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Собираем эффективную политику: дефолты <- каталог <- override ментора
	policy := uc.policyDefaults
	policy.ApplyServiceLimits(service.MinLeadHours, service.MaxAdvanceDays, service.MaxReschedules)

	override, err := uc.policyRepo.GetWithHierarchy(ctx, req.MentorID, ptr.Ptr(req.ServiceID))
	if err != nil && !errors.Is(err, policyRepo.ErrOverrideNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get policy override: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy override: %v", ErrInternal, err)
	}
	if override != nil {
		override.ApplyTo(&policy)
	}

	// 5. Получаем окна доступности ментора
	windows, err := uc.availabilityClient.GetWindows(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, availabilityClient.ErrMentorNotFound) {
			uc.logger.Warn("GetAvailableSlots: mentor id=%d not found", req.MentorID)
			return nil, ErrMentorNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get windows for mentor id=%d: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: failed to get availability windows: %v", ErrInternal, err)
	}

	duration := time.Duration(service.DurationMinutes) * time.Minute

	// 6. Границы расчёта: конец диапазона (полуоткрытый), минимальный срок
	// до начала и горизонт планирования. Горизонт ограничивает начало слота -
	// та же граница, что у проверки WithinAdvanceWindow при создании
	rangeEnd := req.To.AddDate(0, 0, 1)
	earliest := now.Add(time.Duration(policy.MinLeadHours) * time.Hour)

	latestStart := rangeEnd
	if policy.MaxAdvanceDays > 0 {
		horizon := now.AddDate(0, 0, policy.MaxAdvanceDays)
		if horizon.Before(latestStart) {
			latestStart = horizon
		}
	}

	// 7. Получаем активные бронирования ментора в диапазоне
	bookings, err := uc.bookingRepo.GetOverlappingScheduled(ctx, req.MentorID, req.From, rangeEnd, nil)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 8. Окна -> абсолютные интервалы -> слияние -> вычитание занятых -> нарезка
	free := mergeIntervals(expandWindows(windows, req.From, req.To, uc.logger))
	free = subtractBookings(free, bookings)
	slots := cutSlots(free, duration, earliest, latestStart)

	uc.logger.Info("GetAvailableSlots: mentor=%d, service=%d: %d slots", req.MentorID, req.ServiceID, len(slots))

	return &Response{
		MentorID:        req.MentorID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}, nil
}
