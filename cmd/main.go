package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonService/internal/agenda"
	agendaStreamHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/agenda_stream"
	approveRequestHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/approve_request"
	cancelAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_appointment"
	customersHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/customers"
	dashboardHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/dashboard"
	getAgendaHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_agenda"
	getAvailabilityHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_availability"
	getServiceHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_service"
	"github.com/m04kA/SMC-SalonService/internal/api/handlers/health"
	listAppointmentsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/list_appointments"
	listRequestsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/list_requests"
	listServicesHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/list_services"
	rejectRequestHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/reject_request"
	servicesHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/services"
	submitRequestHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/submit_request"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/config"
	"github.com/m04kA/SMC-SalonService/internal/infra/cache"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/customer"
	requestRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/request"
	"github.com/m04kA/SMC-SalonService/internal/schedule"
	appointmentsService "github.com/m04kA/SMC-SalonService/internal/service/appointments"
	catalogService "github.com/m04kA/SMC-SalonService/internal/service/catalog"
	customersService "github.com/m04kA/SMC-SalonService/internal/service/customers"
	dashboardService "github.com/m04kA/SMC-SalonService/internal/service/dashboard"
	requestsService "github.com/m04kA/SMC-SalonService/internal/service/requests"
	approveRequestUC "github.com/m04kA/SMC-SalonService/internal/usecase/approve_request"
	createAppointmentUC "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
	getAvailabilityUC "github.com/m04kA/SMC-SalonService/internal/usecase/get_availability"
	submitRequestUC "github.com/m04kA/SMC-SalonService/internal/usecase/submit_request"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
)

func main() {
	// .env необязателен: в проде переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	configPath := "config.toml"
	if p := os.Getenv("SALON_CONFIG"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-SalonService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики. nil-коллектор безопасен: все методы его проверяют.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных (привилегированный пул)
	db, err := openDB(cfg.Database.DSN(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, "privileged", stopMetricsCh)

	// Публичный пул с ограниченными правами; если не настроен, используем основной
	publicDB := wrappedDB
	if dsn := cfg.Database.PublicDSN(); dsn != "" {
		pub, err := openDB(dsn, cfg.Database.Public.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime)
		if err != nil {
			log.Fatal("Failed to connect to database as public role: %v", err)
		}
		defer pub.Close()
		publicDB = dbmetrics.WrapWithDefault(pub, metricsCollector, "public", stopMetricsCh)
		log.Info("Public database pool connected (user=%s)", cfg.Database.Public.User)
	}

	// Календарь салона
	loc, err := time.LoadLocation(cfg.Business.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Business.Timezone, err)
	}
	hours := schedule.DefaultHours()
	if cfg.Business.OpeningHoursFile != "" {
		hours, err = schedule.LoadHours(cfg.Business.OpeningHoursFile)
		if err != nil {
			log.Fatal("Failed to load opening hours: %v", err)
		}
		log.Info("Opening hours loaded from %s", cfg.Business.OpeningHoursFile)
	}
	calendar, err := schedule.NewCalendar(loc, hours, cfg.Business.SlotStepMinutes)
	if err != nil {
		log.Fatal("Invalid opening hours: %v", err)
	}

	// Кэш каталога (Redis). Интерфейс остается nil, если кэш выключен.
	var catalogCache catalogService.Cache
	var redisCache *cache.CatalogCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		redisCache = cache.NewCatalogCache(redisClient, time.Duration(cfg.Redis.CatalogTTL)*time.Second)
		catalogCache = redisCache
		log.Info("Catalog cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.CatalogTTL)
	}

	// Канал изменений
	broker := changefeed.NewBroker(log)
	var (
		notifier changefeed.Notifier
		source   changefeed.Source
	)
	switch cfg.Changefeed.Driver {
	case config.ChangefeedPostgres:
		notifier = changefeed.NewPostgresNotifier(wrappedDB, cfg.Changefeed.Channel)
		source = changefeed.NewPostgresSource(cfg.Database.DSN(), cfg.Changefeed.Channel, log)
	case config.ChangefeedKafka:
		kafkaNotifier := changefeed.NewKafkaNotifier(cfg.Changefeed.Brokers, cfg.Changefeed.Topic)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
		// Каждый экземпляр читает все события: своя группа на процесс
		source = changefeed.NewKafkaSource(cfg.Changefeed.Brokers, cfg.Changefeed.GroupID+"-"+uuid.NewString(), cfg.Changefeed.Topic, log)
	default:
		notifier = changefeed.NewLocalNotifier(broker)
		source = changefeed.IdleSource{}
	}
	log.Info("Change feed driver: %s", cfg.Changefeed.Driver)

	feedCtx, stopFeed := context.WithCancel(context.Background())
	feedDone := make(chan struct{})
	go func() {
		defer close(feedDone)
		broker.Run(feedCtx, source)
	}()

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	customerRepository := customerRepo.NewRepository(wrappedDB)
	serviceRepository := catalogRepo.NewRepository(wrappedDB)
	requestRepository := requestRepo.NewRepository(wrappedDB)

	publicAppointmentRepository := appointmentRepo.NewRepository(publicDB)
	publicServiceRepository := catalogRepo.NewRepository(publicDB)
	publicRequestRepository := requestRepo.NewRepository(publicDB)

	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Сервисы
	catalogSvc := catalogService.NewService(serviceRepository, catalogCache, notifier, log)
	publicCatalogSvc := catalogService.NewService(publicServiceRepository, catalogCache, notifier, log)
	customersSvc := customersService.NewService(customerRepository, log)
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, notifier, log)
	requestsSvc := requestsService.NewService(requestRepository, notifier, metricsCollector, log)
	dashboardSvc := dashboardService.NewService(
		requestRepository,
		appointmentRepository,
		calendar,
		dashboardService.RealTimeProvider{},
		log,
	)
	agendaSvc := agenda.NewService(
		appointmentRepository,
		agenda.NewBuilder(calendar),
		broker,
		metricsCollector,
		log,
		agenda.Options{
			RefreshInterval: time.Duration(cfg.Agenda.RefreshInterval) * time.Second,
			FetchTimeout:    time.Duration(cfg.Agenda.FetchTimeout) * time.Second,
		},
	)

	// Use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		customerRepository,
		serviceRepository,
		txMgr,
		calendar,
		notifier,
		metricsCollector,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		publicAppointmentRepository,
		publicServiceRepository,
		calendar,
		log,
	)
	submitRequestUseCase := submitRequestUC.NewUseCase(
		publicRequestRepository,
		publicServiceRepository,
		calendar,
		notifier,
		metricsCollector,
		cfg.Booking.ConfirmationURL,
		log,
	)
	approveRequestUseCase := approveRequestUC.NewUseCase(
		requestRepository,
		customerRepository,
		appointmentRepository,
		txMgr,
		notifier,
		metricsCollector,
		cfg.Booking.StrictApproval,
		log,
	)
	if cfg.Booking.StrictApproval {
		log.Info("Strict approval enabled: overlapping requests are rejected")
	}

	// Handlers
	listServices := listServicesHandler.NewHandler(publicCatalogSvc, log)
	getService := getServiceHandler.NewHandler(publicCatalogSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	submitRequest := submitRequestHandler.NewHandler(submitRequestUseCase, log)

	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, calendar, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	listRequests := listRequestsHandler.NewHandler(requestsSvc, log)
	approveRequest := approveRequestHandler.NewHandler(approveRequestUseCase, log)
	rejectRequest := rejectRequestHandler.NewHandler(requestsSvc, log)
	customers := customersHandler.NewHandler(customersSvc, log)
	services := servicesHandler.NewHandler(catalogSvc, log)
	dashboard := dashboardHandler.NewHandler(dashboardSvc, log)
	getAgenda := getAgendaHandler.NewHandler(agendaSvc, calendar, log)
	agendaStream := agendaStreamHandler.NewHandler(func(week time.Time) agendaStreamHandler.LiveView {
		return agendaSvc.NewView(week)
	}, calendar, log)

	checks := []health.Check{{Name: "db", Check: db.PingContext}}
	if redisCache != nil {
		checks = append(checks, health.Check{Name: "redis", Check: redisCache.Ping})
	}
	healthHandler := health.NewHandler(checks...)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", healthHandler.Live).Methods(http.MethodGet)
	r.HandleFunc("/readyz", healthHandler.Ready).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{id:[0-9]+}", getService.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/booking-requests", submitRequest.Handle).Methods(http.MethodPost)

	// ============================================================
	// STAFF ROUTES (Authorization: Bearer <staff token>)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.StaffAuth(cfg.Auth.StaffTokenHash, log))

	// --- Записи ---
	admin.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{id}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Заявки ---
	admin.HandleFunc("/requests", listRequests.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/requests/{id}/approve", approveRequest.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/requests/{id}/reject", rejectRequest.Handle).Methods(http.MethodPost)

	// --- Клиенты ---
	admin.HandleFunc("/customers", customers.List).Methods(http.MethodGet)
	admin.HandleFunc("/customers", customers.Create).Methods(http.MethodPost)
	admin.HandleFunc("/customers/{id}", customers.Get).Methods(http.MethodGet)
	admin.HandleFunc("/customers/{id}", customers.Update).Methods(http.MethodPut)
	admin.HandleFunc("/customers/{id}", customers.Delete).Methods(http.MethodDelete)

	// --- Услуги ---
	admin.HandleFunc("/services", services.List).Methods(http.MethodGet)
	admin.HandleFunc("/services", services.Create).Methods(http.MethodPost)
	admin.HandleFunc("/services/{id}", services.Update).Methods(http.MethodPut)
	admin.HandleFunc("/services/{id}", services.Delete).Methods(http.MethodDelete)

	// --- Сводка и агенда ---
	admin.HandleFunc("/dashboard", dashboard.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/agenda", getAgenda.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/agenda/stream", agendaStream.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
	srv.RegisterOnShutdown(agendaStream.Close)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем канал изменений после закрытия соединений
	stopFeed()
	<-feedDone
	broker.Close()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// openDB открывает пул и проверяет соединение
func openDB(dsn string, maxOpen, maxIdle, maxLifetimeSec int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(time.Duration(maxLifetimeSec) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}
