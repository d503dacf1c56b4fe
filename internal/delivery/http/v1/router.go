package v1

import (
	"net/http"
	"time"

	"talenthub-backend/config"
	"talenthub-backend/internal/delivery/http/middleware"
	"talenthub-backend/internal/delivery/http/response"
	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/usecase"
	"talenthub-backend/pkg/logger"
	"talenthub-backend/pkg/metrics"
	"talenthub-backend/pkg/security"
	"talenthub-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC              domain.AuthUsecase
	OnboardingUC        domain.OnboardingUsecase
	CompanyProfileUC    domain.CompanyProfileUsecase
	JobUC               domain.JobUsecase
	ApplicationUC       domain.ApplicationUsecase
	ExportUC            domain.ExportUsecase
	UploadUC            domain.UploadUsecase
	EmployerDashboardUC domain.EmployerDashboardUsecase
	TalentDashboardUC   domain.TalentDashboardUsecase
	AdminUC             domain.AdminUsecase
	NotificationUC      domain.NotificationUsecase
	HealthUC            usecase.HealthUsecase

	Verifier    middleware.TokenVerifier
	RateLimiter *middleware.RateLimiter
	Audit       *security.SecurityLogger
	Metrics     metrics.MetricsCollector
	Gatherer    prometheus.Gatherer
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.RegisterValidators(v); err != nil {
			logger.Log.Error("Failed to register validators", "error", err)
		}
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware([]string{deps.Config.FrontendURL}, deps.Config.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing())
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Audit))

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(deps.Gatherer)))
	}

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		report := map[string]string{"status": "ok"}
		if deps.HealthUC != nil {
			report = deps.HealthUC.Check(c.Request.Context())
		}
		response.Success(c, http.StatusOK, "System operational", report)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
	if window <= 0 {
		window = time.Minute
	}

	// Every API route resolves the session when a token is present.
	// Anonymous callers reach only the public job endpoints; the use cases
	// reject them everywhere else.
	api := v1.Group("")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware(middleware.GlobalConfig(deps.Config.RateLimitGlobalThreshold, window)))
	}
	api.Use(middleware.CSRFMiddleware(deps.Config.IsProduction()))
	api.Use(middleware.AuthMiddleware(deps.Verifier, deps.AuthUC, deps.Audit))
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware(middleware.WriteConfig(deps.Config.RateLimitWriteThreshold, window)))
	}
	{
		NewAuthHandler(api, deps.AuthUC)
		NewOnboardingHandler(api, deps.OnboardingUC)
		NewCompanyProfileHandler(api, deps.CompanyProfileUC)
		NewJobHandler(api, deps.JobUC, deps.ExportUC)
		NewApplicationHandler(api, deps.ApplicationUC)
		NewUploadHandler(api, deps.UploadUC)
		NewDashboardHandler(api, deps.EmployerDashboardUC, deps.TalentDashboardUC, deps.AdminUC)
		NewNotificationHandler(api, deps.NotificationUC)
	}

	return r
}
