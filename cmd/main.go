package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/create_booking"
	deletePolicyConfigHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/delete_policy_config"
	getAvailableSlotsHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/get_booking"
	getBookingHistoryHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/get_booking_history"
	getMentorBookingsHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/get_mentor_bookings"
	getPolicyConfigHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/get_policy_config"
	getStudentBookingsHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/get_student_bookings"
	markNoShowHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/mark_no_show"
	rescheduleBookingHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/reschedule_booking"
	updatePolicyConfigHandler "github.com/mentorhub/MH-BookingEngine/internal/api/handlers/update_policy_config"
	"github.com/mentorhub/MH-BookingEngine/internal/api/middleware"
	"github.com/mentorhub/MH-BookingEngine/internal/config"
	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	bookingRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/booking"
	historyRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/history"
	policyRepo "github.com/mentorhub/MH-BookingEngine/internal/infra/storage/policy"
	availabilityClient "github.com/mentorhub/MH-BookingEngine/internal/integrations/availabilityservice"
	catalogClient "github.com/mentorhub/MH-BookingEngine/internal/integrations/catalogservice"
	"github.com/mentorhub/MH-BookingEngine/internal/integrations/notifier"
	bookingsService "github.com/mentorhub/MH-BookingEngine/internal/service/bookings"
	policyService "github.com/mentorhub/MH-BookingEngine/internal/service/policycfg"
	createBookingUC "github.com/mentorhub/MH-BookingEngine/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/mentorhub/MH-BookingEngine/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/mentorhub/MH-BookingEngine/internal/usecase/reschedule_booking"
	"github.com/mentorhub/MH-BookingEngine/pkg/dbmetrics"
	"github.com/mentorhub/MH-BookingEngine/pkg/logger"
	"github.com/mentorhub/MH-BookingEngine/pkg/metrics"
	"github.com/mentorhub/MH-BookingEngine/pkg/simpletxmanager"
	"github.com/mentorhub/MH-BookingEngine/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting MH-BookingEngine...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	catalog := catalogClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	availability := availabilityClient.NewClient(
		cfg.AvailabilityService.URL,
		time.Duration(cfg.AvailabilityService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, AvailabilityService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.AvailabilityService.URL, cfg.AvailabilityService.Timeout)

	// Publisher событий бронирований (RabbitMQ или no-op заглушка)
	type Notifier interface {
		PublishAsync(routingKey string, booking *domain.Booking, actorID int64, reason *string)
		Close()
	}
	var events Notifier

	if cfg.Notifier.Enabled {
		publisher, err := notifier.NewPublisher(cfg.Notifier.URL, cfg.Notifier.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to notifier broker: %v", err)
		}
		events = publisher
		log.Info("Booking events publisher connected (exchange=%s)", cfg.Notifier.Exchange)
	} else {
		events = notifier.NopPublisher{}
		log.Info("Booking events publisher disabled")
	}
	defer events.Close()

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		historyRepository *historyRepo.Repository
		policyRepository  *policyRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		historyRepository = historyRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		historyRepository = historyRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Дефолтная политика бронирования из конфигурации
	policyDefaults := cfg.Policy.Defaults()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		historyRepository,
		policyRepository,
		catalog,
		txMgr,
		events,
		policyDefaults,
		log,
	)
	policySvc := policyService.NewService(policyRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		historyRepository,
		policyRepository,
		catalog,
		availability,
		txMgr,
		events,
		policyDefaults,
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		historyRepository,
		policyRepository,
		catalog,
		availability,
		txMgr,
		events,
		policyDefaults,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		policyRepository,
		catalog,
		availability,
		policyDefaults,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookingHistory := getBookingHistoryHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	markNoShow := markNoShowHandler.NewHandler(bookingSvc, log)
	getStudentBookings := getStudentBookingsHandler.NewHandler(bookingSvc, log)
	getMentorBookings := getMentorBookingsHandler.NewHandler(bookingSvc, log)
	getPolicyConfig := getPolicyConfigHandler.NewHandler(policySvc, log)
	updatePolicyConfig := updatePolicyConfigHandler.NewHandler(policySvc, log)
	deletePolicyConfig := deletePolicyConfigHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расчёт доступных слотов ментора
	api.HandleFunc("/mentors/{mentorId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// История изменений бронирования
	protected.HandleFunc("/bookings/{bookingId}/history", getBookingHistory.Handle).Methods(http.MethodGet)

	// Перенос бронирования на новый слот
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Завершение проведенной сессии
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// Отметка неявки студента
	protected.HandleFunc("/bookings/{bookingId}/no-show", markNoShow.Handle).Methods(http.MethodPatch)

	// Бронирования студента
	protected.HandleFunc("/students/{studentId}/bookings", getStudentBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет ментора ---
	// Расписание ментора
	protected.HandleFunc("/mentors/{mentorId}/bookings", getMentorBookings.Handle).Methods(http.MethodGet)

	// Управление override'ами политики бронирования
	protected.HandleFunc("/mentors/{mentorId}/policy", getPolicyConfig.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/mentors/{mentorId}/policy", updatePolicyConfig.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/mentors/{mentorId}/policy", deletePolicyConfig.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
