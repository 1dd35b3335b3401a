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

	cancelReservationHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/cancel_reservation"
	createBlockPeriodHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/create_block_period"
	createReservationHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/create_reservation"
	deactivateBlockPeriodHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/deactivate_block_period"
	deactivateRuleHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/deactivate_rule"
	evaluateDateHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/evaluate_date"
	getAvailabilityHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/get_availability"
	getBalanceHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/get_balance"
	getReservationHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/get_reservation"
	listBlockPeriodsHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/list_block_periods"
	listConflictsHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/list_conflicts"
	listPaymentsHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/list_payments"
	listRoomReservationsHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/list_room_reservations"
	listRulesHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/list_rules"
	recomputeAvailabilityHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/recompute_availability"
	recordPaymentHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/record_payment"
	refundPaymentHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/refund_payment"
	settlePaymentHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/settle_payment"
	updateReservationStatusHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/update_reservation_status"
	upsertRuleHandler "github.com/m04kA/SMC-RoomReservationService/internal/api/handlers/upsert_rule"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/config"
	availabilityCache "github.com/m04kA/SMC-RoomReservationService/internal/infra/cache/availability"
	blockRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/block"
	cellRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/cell"
	paymentRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/payment"
	reservationRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/reservation"
	ruleRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/rule"
	catalogServiceClient "github.com/m04kA/SMC-RoomReservationService/internal/integrations/catalogservice"
	customerServiceClient "github.com/m04kA/SMC-RoomReservationService/internal/integrations/customerservice"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/events"
	blocksService "github.com/m04kA/SMC-RoomReservationService/internal/service/blocks"
	calendarService "github.com/m04kA/SMC-RoomReservationService/internal/service/calendar"
	paymentsService "github.com/m04kA/SMC-RoomReservationService/internal/service/payments"
	reservationsService "github.com/m04kA/SMC-RoomReservationService/internal/service/reservations"
	rulesService "github.com/m04kA/SMC-RoomReservationService/internal/service/rules"
	cancelReservationUC "github.com/m04kA/SMC-RoomReservationService/internal/usecase/cancel_reservation"
	createReservationUC "github.com/m04kA/SMC-RoomReservationService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-RoomReservationService/internal/usecase/get_availability"
	recordPaymentUC "github.com/m04kA/SMC-RoomReservationService/internal/usecase/record_payment"
	"github.com/m04kA/SMC-RoomReservationService/internal/worker/recompute"
	"github.com/m04kA/SMC-RoomReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/metrics"
	"github.com/m04kA/SMC-RoomReservationService/pkg/txmanager"
)

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

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

	log.Info("Starting SMC-RoomReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	// Методы *metrics.Metrics безопасны для nil, поэтому без метрик передаётся nil
	var metricsCollector *metrics.Metrics
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
	db.SetConnMaxLifetime(seconds(cfg.Database.ConnMaxLifetime))

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Plain(db)
	}

	// Инициализируем репозитории и transaction manager
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	cellRepository := cellRepo.NewRepository(wrappedDB)
	ruleRepository := ruleRepo.NewRepository(wrappedDB)
	blockRepository := blockRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		seconds(cfg.CatalogService.Timeout),
		catalogServiceClient.BreakerSettings{
			MaxFailures: cfg.CatalogService.BreakerMaxFailures,
			OpenTimeout: seconds(cfg.CatalogService.BreakerOpenTimeout),
		},
		log,
	)
	customerClient := customerServiceClient.NewClient(
		cfg.CustomerService.URL,
		seconds(cfg.CustomerService.Timeout),
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, CustomerService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.CustomerService.URL, cfg.CustomerService.Timeout)

	// Кэш доступности (необязателен, без Redis ответы строятся из БД)
	var cache calendarService.Cache
	if cfg.Redis.Enabled() {
		rdb, err := availabilityCache.Connect(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, availability cache disabled: %v", err)
		} else {
			defer rdb.Close()
			cache = availabilityCache.NewCache(rdb, seconds(cfg.Redis.TTL), cfg.Redis.Prefix)
			log.Info("Availability cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
		}
	}

	// Публикация событий (необязательна)
	var publisher reservationsService.EventPublisher = events.NopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		amqpPublisher, err := events.Dial(cfg.RabbitMQ.URL, log)
		if err != nil {
			log.Warn("RabbitMQ unavailable, reservation events disabled: %v", err)
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
			log.Info("Reservation events publishing enabled")
		}
	}

	// Календарь доступности и фоновый пересчёт
	calendar := calendarService.NewService(
		cellRepository,
		ruleRepository,
		blockRepository,
		catalogClient,
		cache,
		txMgr,
		metricsCollector,
		cfg.Calendar.HorizonDays,
		log,
	)

	worker := recompute.NewWorker(calendar, cellRepository, recompute.Config{
		QueueSize:      cfg.Worker.QueueSize,
		MaxAttempts:    cfg.Worker.MaxAttempts,
		RetryBackoff:   seconds(cfg.Worker.RetryBackoff),
		ExtendInterval: seconds(cfg.Worker.ExtendInterval),
		JobTimeout:     seconds(cfg.Worker.JobTimeout),
	}, log)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(workerCtx)
	}()

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(reservationRepository, txMgr, publisher, log)
	paymentSvc := paymentsService.NewService(paymentRepository, reservationSvc, txMgr, log)
	ruleSvc := rulesService.NewService(ruleRepository, catalogClient, calendar, worker, log)
	blockSvc := blocksService.NewService(blockRepository, catalogClient, calendar, worker, log)

	// Инициализируем use cases
	confirmPolicy, err := recordPaymentUC.ParseConfirmPolicy(cfg.Booking.ConfirmPolicy)
	if err != nil {
		log.Fatal("Invalid confirm policy: %v", err)
	}

	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		calendar,
		customerClient,
		txMgr,
		publisher,
		metricsCollector,
		createReservationUC.Config{
			MaxNights:   cfg.Booking.MaxNights,
			LockTimeout: cfg.Booking.LockTimeout(),
		},
		log,
	)
	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		reservationRepository,
		calendar,
		txMgr,
		publisher,
		cfg.Booking.LockTimeout(),
		log,
	)
	recordPaymentUseCase := recordPaymentUC.NewUseCase(paymentSvc, reservationSvc, txMgr, confirmPolicy, log)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(calendar, log)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(reservationSvc, log)
	listRoomReservations := listRoomReservationsHandler.NewHandler(reservationSvc, log)
	recordPayment := recordPaymentHandler.NewHandler(recordPaymentUseCase, log)
	refundPayment := refundPaymentHandler.NewHandler(paymentSvc, log)
	settlePayment := settlePaymentHandler.NewHandler(recordPaymentUseCase, log)
	listPayments := listPaymentsHandler.NewHandler(paymentSvc, log)
	getBalance := getBalanceHandler.NewHandler(paymentSvc, log)
	upsertRule := upsertRuleHandler.NewHandler(ruleSvc, log)
	listRules := listRulesHandler.NewHandler(ruleSvc, log)
	deactivateRule := deactivateRuleHandler.NewHandler(ruleSvc, log)
	createBlockPeriod := createBlockPeriodHandler.NewHandler(blockSvc, log)
	listBlockPeriods := listBlockPeriodsHandler.NewHandler(blockSvc, log)
	deactivateBlockPeriod := deactivateBlockPeriodHandler.NewHandler(blockSvc, log)
	recomputeAvailability := recomputeAvailabilityHandler.NewHandler(calendar, log)
	listConflicts := listConflictsHandler.NewHandler(calendar, log)
	evaluateDate := evaluateDateHandler.NewHandler(calendar, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарь доступности номера
	api.HandleFunc("/rooms/{roomId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-Company-ID)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/status", updateReservationStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/rooms/{roomId}/reservations", listRoomReservations.Handle).Methods(http.MethodGet)

	// --- Платежи ---
	protected.HandleFunc("/reservations/{reservationId}/payments", recordPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/payments", listPayments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/payments/{paymentId}", settlePayment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/payments/{paymentId}/refund", refundPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/balance", getBalance.Handle).Methods(http.MethodGet)

	// --- Правила доступности ---
	protected.HandleFunc("/rules", upsertRule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/rules", listRules.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/rules/{ruleId}", deactivateRule.Handle).Methods(http.MethodDelete)

	// --- Периоды блокировки ---
	protected.HandleFunc("/block-periods", createBlockPeriod.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/block-periods", listBlockPeriods.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/block-periods/{blockId}", deactivateBlockPeriod.Handle).Methods(http.MethodDelete)

	// --- Обслуживание календаря (для менеджеров) ---
	protected.HandleFunc("/rooms/{roomId}/availability/recompute", recomputeAvailability.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/rooms/{roomId}/availability/conflicts", listConflicts.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/rooms/{roomId}/availability/evaluate", evaluateDate.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  seconds(cfg.Server.ReadTimeout),
		WriteTimeout: seconds(cfg.Server.WriteTimeout),
		IdleTimeout:  seconds(cfg.Server.IdleTimeout),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), seconds(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем фоновый пересчёт, незавершённые задания будут подхвачены продлением горизонта
	stopWorker()
	select {
	case <-workerDone:
		log.Info("Recompute worker stopped")
	case <-shutdownCtx.Done():
		log.Warn("Recompute worker did not stop in time")
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
