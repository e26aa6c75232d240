package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/handler/middleware"
	v1 "github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/repository/postgres"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/tokenstore"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/tracer"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

func main() {
	createAdmin := flag.String("create-admin", "", "bootstrap an admin account as email:password:full name and exit")
	flag.Parse()

	if err := run(*createAdmin); err != nil {
		fmt.Fprintf(os.Stderr, "cuidarplus: %v\n", err)
		os.Exit(1)
	}
}

func run(createAdmin string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.New(cfg.Log, cfg.App)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, cfg.Tracing, cfg.App.Version)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewCollector("cuidarplus", reg)

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrapping database handle: %w", err)
	}
	defer sqlDB.Close()

	if err := database.Migrate(db, log); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if err := database.RegisterMetrics(db, m); err != nil {
		return fmt.Errorf("registering database metrics: %w", err)
	}

	var tokens tokenstore.Store = tokenstore.NewMemoryStore()
	if cfg.Redis.Enabled {
		client, err := tokenstore.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer client.Close()
		tokens = tokenstore.NewRedisStore(client)
	} else {
		log.Warn("redis disabled, refresh-token revocation is process local")
	}

	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	medicationRepo := postgres.NewMedicationRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	insurerRepo := postgres.NewInsurerRepository(db)
	providerRepo := postgres.NewProviderRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	jwt := auth.NewJWTManager(cfg.JWT)

	auditSvc := service.NewAuditService(postgres.NewAuditRepository(db), m, log)
	authSvc := service.NewAuthService(userRepo, jwt, tokens, auditSvc, log)
	userSvc := service.NewUserService(userRepo, patientRepo, auditSvc, log)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, m, log)
	medicationSvc := service.NewMedicationService(medicationRepo, patientRepo, auditSvc, m, log)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, patientRepo, providerRepo, auditSvc, m, log)
	insurerSvc := service.NewInsurerService(insurerRepo, auditSvc, log)
	providerSvc := service.NewProviderService(providerRepo, insurerRepo, auditSvc, log)
	inventorySvc := service.NewInventoryService(inventoryRepo, auditSvc, m, log)
	reportSvc := service.NewReportService(reportRepo, patientRepo, inventoryRepo, appointmentRepo,
		auditSvc, m, log, cfg.Reports.QueueSize, cfg.Reports.Timeout)

	if createAdmin != "" {
		defer auditSvc.Shutdown(context.Background())
		return bootstrapAdmin(ctx, userSvc, createAdmin, log)
	}

	if err := v1.RegisterValidators(); err != nil {
		return fmt.Errorf("registering validators: %w", err)
	}
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	authLimiter := middleware.NewIPRateLimiter(
		rate.Every(time.Minute/time.Duration(max(cfg.RateLimit.AuthRequestsPerMinute, 1))),
		max(cfg.RateLimit.AuthRequestsPerMinute, 1),
	)

	router := v1.NewRouter(v1.RouterDeps{
		App:         cfg.App,
		CORS:        cfg.CORS,
		Tracing:     cfg.Tracing,
		Log:         log,
		Metrics:     m,
		Gatherer:    reg,
		JWT:         jwt,
		Limiter:     limiter,
		AuthLimiter: authLimiter,
		HealthCheck: sqlDB.PingContext,
		Handlers: v1.Handlers{
			Auth:         v1.NewAuthHandler(authSvc),
			Users:        v1.NewUserHandler(userSvc),
			Patients:     v1.NewPatientHandler(patientSvc),
			Medications:  v1.NewMedicationHandler(medicationSvc),
			Appointments: v1.NewAppointmentHandler(appointmentSvc),
			Insurers:     v1.NewInsurerHandler(insurerSvc),
			Providers:    v1.NewProviderHandler(providerSvc),
			Inventory:    v1.NewInventoryHandler(inventorySvc),
			Reports:      v1.NewReportHandler(reportSvc),
		},
	})

	workers, cancelWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	reportSvc.Start(workers)

	reminders := service.NewReminderScheduler(appointmentRepo, service.NewLogNotifier(log), m, log,
		cfg.Scheduler.ReminderInterval, cfg.Scheduler.ReminderWindow)
	wg.Add(3)
	go func() { defer wg.Done(); reminders.Run(workers) }()
	go func() { defer wg.Done(); limiter.RunPruner(workers, time.Minute, limiterIdleTTL) }()
	go func() { defer wg.Done(); authLimiter.RunPruner(workers, time.Minute, limiterIdleTTL) }()

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", zap.Error(err))
	}

	if err := reportSvc.Shutdown(shutdownCtx); err != nil {
		log.Error("report workers shutdown", zap.Error(err))
	}
	cancelWorkers()
	wg.Wait()
	auditSvc.Shutdown(shutdownCtx)

	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("tracer shutdown", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}

func bootstrapAdmin(ctx context.Context, users *service.UserService, account string, log *zap.Logger) error {
	parts := strings.SplitN(account, ":", 3)
	if len(parts) != 3 {
		return errors.New("-create-admin expects email:password:full name")
	}

	u, err := users.BootstrapAdmin(ctx, parts[0], parts[1], parts[2])
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	log.Info("admin account created", zap.String("user_id", u.ID.String()), zap.String("email", u.Email))
	return nil
}
