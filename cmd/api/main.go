package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talenthub-backend/config"
	_ "talenthub-backend/docs" // Important for Swagger
	"talenthub-backend/internal/delivery/http/middleware"
	v1 "talenthub-backend/internal/delivery/http/v1"
	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/notify"
	"talenthub-backend/internal/repository/postgres"
	"talenthub-backend/internal/usecase"
	"talenthub-backend/pkg/auth"
	"talenthub-backend/pkg/database"
	"talenthub-backend/pkg/logger"
	"talenthub-backend/pkg/metrics"
	"talenthub-backend/pkg/mq"
	"talenthub-backend/pkg/obs"
	"talenthub-backend/pkg/redis"
	"talenthub-backend/pkg/security"
	"talenthub-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
)

const serviceName = "talenthub-api"

// redisPinger adapts the client to the health check.
type redisPinger struct{ c *goredis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.c.Ping(ctx).Err() }

// @title           Talent Hub API
// @version         1.0
// @description     Job board backend: postings, applications, dashboards and notifications.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting talent hub backend", "port", cfg.Port, "env", cfg.Env)
	audit := security.NewSecurityLogger(serviceName, cfg.Env)
	defer func() { _ = audit.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Tracing and metrics
	shutdownTracer, err := obs.InitTracer(ctx, serviceName, cfg.OTelEndpoint, cfg.Env)
	if err != nil {
		logger.Log.Warn("Tracing disabled", "error", err)
		shutdownTracer = func(context.Context) error { return nil }
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// 4. Setup Database
	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DBUrl); err != nil {
			logger.Log.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 5. Optional infrastructure: Redis and object storage
	health := map[string]usecase.Pinger{"database": dbPool}

	redisClient, err := redis.Connect(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	if err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limits", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		health["redis"] = redisPinger{c: redisClient}
	}

	// A nil *S3Storage must not reach the use case as a non-nil interface
	var objectStorage domain.ObjectStorage
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
			PresignTTL:      cfg.S3PresignTTL,
		})
		if err != nil {
			logger.Log.Warn("Object storage unavailable, resume uploads disabled", "error", err)
		} else {
			objectStorage = s3Store
		}
	} else {
		logger.Log.Warn("S3_BUCKET not set, resume uploads disabled")
	}

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	notificationRepo := postgres.NewNotificationRepository(dbPool)
	dashboardRepo := postgres.NewDashboardRepository(dbPool)

	// 7. Notification dispatch: direct store writes or the queue
	var sink notify.Sink = notify.NewStoreSink(notificationRepo)
	if cfg.NotifyTransport == "amqp" {
		pub, err := mq.NewPublisher(cfg.RabbitURL, cfg.NotifyExchange)
		if err != nil {
			logger.Log.Warn("RabbitMQ unavailable, writing notifications directly", "error", err)
		} else {
			defer pub.Close()
			sink = notify.NewQueueSink(pub)
		}
	}
	emitter := notify.NewAsyncEmitter(sink, cfg.NotifyTimeout, collector)
	templates := notify.NewTemplates(time.Duration(cfg.NotificationTTLDays) * 24 * time.Hour)

	// 8. Setup UseCases
	authUC := usecase.NewAuthUsecase(userRepo)
	onboardingUC := usecase.NewOnboardingUsecase(userRepo, audit)
	companyProfileUC := usecase.NewCompanyProfileUsecase(userRepo, emitter, templates)
	jobUC := usecase.NewJobUsecase(jobRepo, applicationRepo, userRepo, emitter, templates)
	applicationUC := usecase.NewApplicationUsecase(usecase.ApplicationDeps{
		Applications: applicationRepo,
		Jobs:         jobRepo,
		Emitter:      emitter,
		Templates:    templates,
		Lifecycle:    domain.Lifecycle{EnforceGraph: cfg.LifecycleEnforceGraph},
		Metrics:      collector,
		Audit:        audit,
	})
	exportUC := usecase.NewExportUsecase(applicationRepo, jobRepo)
	uploadLimiter := security.NewUploadLimiter(redisClient, cfg.UploadLimitPerMinute, cfg.UploadLimitPerDay)
	defer uploadLimiter.Close()
	uploadUC := usecase.NewUploadUsecase(objectStorage, uploadLimiter, collector, audit)
	employerDashUC := usecase.NewEmployerDashboardUsecase(dashboardRepo, jobRepo, applicationRepo, time.Now)
	talentDashUC := usecase.NewTalentDashboardUsecase(dashboardRepo, jobRepo, applicationRepo, time.Now)
	adminUC := usecase.NewAdminUsecase(dashboardRepo, jobRepo, applicationRepo, time.Now)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, templates, time.Now)
	healthUC := usecase.NewHealthUsecase(health)

	// 9. Session token verification (HS256 secret and/or JWKS)
	var jwks *auth.Provider
	if cfg.JWKSURL != "" {
		jwks = auth.NewProvider(cfg.JWKSURL)
	}
	verifier := auth.NewVerifier(cfg.JWTSecret, jwks)

	// 10. Setup Router
	rateLimiter := middleware.NewRateLimiter(redisClient, audit, collector)
	defer rateLimiter.Close()
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:              authUC,
		OnboardingUC:        onboardingUC,
		CompanyProfileUC:    companyProfileUC,
		JobUC:               jobUC,
		ApplicationUC:       applicationUC,
		ExportUC:            exportUC,
		UploadUC:            uploadUC,
		EmployerDashboardUC: employerDashUC,
		TalentDashboardUC:   talentDashUC,
		AdminUC:             adminUC,
		NotificationUC:      notificationUC,
		HealthUC:            healthUC,
		Verifier:            verifier,
		RateLimiter:         rateLimiter,
		Audit:               audit,
		Metrics:             collector,
		Gatherer:            reg,
		Config:              cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	// Drain in-flight notifications before the store goes away
	if err := emitter.Close(shutdownCtx); err != nil {
		logger.Log.Warn("Notification dispatch did not drain", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Log.Warn("Tracer shutdown failed", "error", err)
	}

	logger.Log.Info("Server exiting")
}
