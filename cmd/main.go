package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/create_booking"
	createRuleHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/create_rule"
	deleteRuleHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/delete_rule"
	getBerthStatusesHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/get_berth_statuses"
	getBookingHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/get_booking"
	getBookingPaymentsHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/get_booking_payments"
	getClubBookingsHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/get_club_bookings"
	getPaymentHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/get_payment"
	getPriceQuoteHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/get_price_quote"
	getUserBookingsHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/get_user_bookings"
	listRulesHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/list_rules"
	payPaymentHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/pay_payment"
	refundPaymentHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/refund_payment"
	updateBookingStatusHandler "github.com/m04kA/SMC-MarinaService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-MarinaService/internal/api/middleware"
	"github.com/m04kA/SMC-MarinaService/internal/config"
	"github.com/m04kA/SMC-MarinaService/internal/infra/events"
	berthRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/berth"
	bookingRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/booking"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	paymentRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/payment"
	ruleRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/rule"
	tariffRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/tariff"
	vesselRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/vessel"
	userServiceClient "github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/SMC-MarinaService/internal/service/bookings"
	paymentsService "github.com/m04kA/SMC-MarinaService/internal/service/payments"
	"github.com/m04kA/SMC-MarinaService/internal/service/pricing"
	rulesService "github.com/m04kA/SMC-MarinaService/internal/service/rules"
	createBookingUC "github.com/m04kA/SMC-MarinaService/internal/usecase/create_booking"
	getBerthStatusesUC "github.com/m04kA/SMC-MarinaService/internal/usecase/get_berth_statuses"
	getPriceQuoteUC "github.com/m04kA/SMC-MarinaService/internal/usecase/get_price_quote"
	"github.com/m04kA/SMC-MarinaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarinaService/pkg/logger"
	"github.com/m04kA/SMC-MarinaService/pkg/metrics"
	"github.com/m04kA/SMC-MarinaService/pkg/tracing"
	"github.com/m04kA/SMC-MarinaService/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-MarinaService...")
	log.Info("Configuration loaded from %s", *configPath)

	// Трейсинг
	shutdownTracing, err := tracing.Setup(cfg.Tracing.Enabled, cfg.Metrics.ServiceName, cfg.Tracing.Output)
	if err != nil {
		log.Fatal("Failed to set up tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Error("Failed to flush traces: %v", err)
		}
	}()

	// Метрики (nil, если выключены: все методы безопасны для nil)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

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

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Интеграционные клиенты
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout)

	// Издатель событий
	var publisher interface {
		Publish(ctx context.Context, event events.Event) error
		Close() error
	} = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(
			cfg.Kafka.Brokers,
			cfg.Kafka.Topic,
			time.Duration(cfg.Kafka.WriteTimeout)*time.Second,
			log,
		)
		log.Info("Kafka publisher enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	// Репозитории
	clubRepository := clubRepo.NewRepository(wrappedDB)
	berthRepository := berthRepo.NewRepository(wrappedDB)
	vesselRepository := vesselRepo.NewRepository(wrappedDB)
	tariffRepository := tariffRepo.NewRepository(wrappedDB)
	ruleRepository := ruleRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)

	// Сервисы
	ruleSvc := rulesService.NewService(
		ruleRepository,
		clubRepository,
		tariffRepository,
		userClient,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		paymentRepository,
		clubRepository,
		userClient,
		publisher,
		log,
	)
	paymentSvc := paymentsService.NewService(
		paymentRepository,
		bookingRepository,
		clubRepository,
		userClient,
		bookingSvc,
		txMgr,
		publisher,
		metricsCollector,
		paymentsService.Policy{DailyPenaltyRate: cfg.Payments.PenaltyRate()},
		log,
	)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		clubRepository,
		berthRepository,
		vesselRepository,
		tariffRepository,
		ruleRepository,
		userClient,
		txMgr,
		publisher,
		metricsCollector,
		pricing.SchedulePolicy{
			DueDays:         cfg.Payments.DueDays,
			DepositRequired: cfg.Booking.DepositRequiredForConfirmation,
		},
		log,
	)
	getPriceQuoteUseCase := getPriceQuoteUC.NewUseCase(
		clubRepository,
		berthRepository,
		tariffRepository,
		ruleRepository,
		log,
	)
	getBerthStatusesUseCase := getBerthStatusesUC.NewUseCase(
		clubRepository,
		berthRepository,
		bookingRepository,
		log,
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getClubBookings := getClubBookingsHandler.NewHandler(bookingSvc, log)
	getBookingPayments := getBookingPaymentsHandler.NewHandler(paymentSvc, log)
	getPayment := getPaymentHandler.NewHandler(paymentSvc, log)
	payPayment := payPaymentHandler.NewHandler(paymentSvc, log)
	refundPayment := refundPaymentHandler.NewHandler(paymentSvc, log)
	listRules := listRulesHandler.NewHandler(ruleSvc, log)
	createRule := createRuleHandler.NewHandler(ruleSvc, log)
	deleteRule := deleteRuleHandler.NewHandler(ruleSvc, log)
	getPriceQuote := getPriceQuoteHandler.NewHandler(getPriceQuoteUseCase, log)
	getBerthStatuses := getBerthStatusesHandler.NewHandler(getBerthStatusesUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Состояние причалов клуба
	api.HandleFunc("/clubs/{clubId}/berths/statuses", getBerthStatuses.Handle).Methods(http.MethodGet)

	// Котировка бронирования причала
	api.HandleFunc("/clubs/{clubId}/berths/{berthId}/quote", getPriceQuote.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/payments", getBookingPayments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Платежи (платежный шлюз и администрирование) ---
	protected.HandleFunc("/payments/{paymentId}", getPayment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/payments/{paymentId}/pay", payPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/payments/{paymentId}/refund", refundPayment.Handle).Methods(http.MethodPost)

	// --- Управление клубом (для владельцев клубов) ---
	protected.HandleFunc("/clubs/{clubId}/bookings", getClubBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/clubs/{clubId}/rules", listRules.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/clubs/{clubId}/rules", createRule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/clubs/{clubId}/rules/{ruleId}", deleteRule.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	var g run.Group

	// HTTP сервер
	g.Add(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown: %v", err)
		}
	})

	// Сигналы завершения
	g.Add(run.SignalHandler(context.Background(), syscall.SIGINT, syscall.SIGTERM))

	if err := g.Run(); err != nil {
		var sigErr run.SignalError
		if !errors.As(err, &sigErr) {
			log.Error("Service stopped with error: %v", err)
			return
		}
		log.Info("Received signal %v", sigErr.Signal)
	}

	log.Info("Server stopped gracefully")
}
