package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/handler/middleware"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth         *AuthHandler
	Users        *UserHandler
	Patients     *PatientHandler
	Medications  *MedicationHandler
	Appointments *AppointmentHandler
	Insurers     *InsurerHandler
	Providers    *ProviderHandler
	Inventory    *InventoryHandler
	Reports      *ReportHandler
}

type RouterDeps struct {
	App      config.AppConfig
	CORS     config.CORSConfig
	Tracing  config.TracingConfig
	Log      *zap.Logger
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
	JWT      *auth.JWTManager

	Limiter     *middleware.IPRateLimiter
	AuthLimiter *middleware.IPRateLimiter

	// HealthCheck reports dependency health for /health; nil means always healthy.
	HealthCheck func(ctx context.Context) error

	Handlers Handlers
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(d.Log),
		middleware.RequestID(),
		middleware.Tracing(d.Tracing.ServiceName),
		middleware.Logger(d.Log),
		middleware.Metrics(d.Metrics),
		middleware.CORS(d.CORS),
		d.Limiter.Middleware(),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    d.App.Name,
			"version": d.App.Version,
			"docs":    "/api/v1",
		})
	})
	r.GET("/health", healthHandler(d))
	r.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth", d.AuthLimiter.Middleware())
	d.Handlers.Auth.RegisterPublic(authGroup)

	secured := api.Group("", middleware.Auth(d.JWT))
	d.Handlers.Auth.Register(secured.Group("/auth"))
	d.Handlers.Users.Register(secured.Group("/users"))

	patients := secured.Group("/patients")
	d.Handlers.Patients.Register(patients)
	d.Handlers.Medications.RegisterPatientRoutes(patients)

	d.Handlers.Medications.Register(secured.Group("/medications"))
	d.Handlers.Appointments.Register(secured.Group("/appointments"))
	d.Handlers.Insurers.Register(secured.Group("/insurers"))
	d.Handlers.Providers.Register(secured.Group("/providers"))
	d.Handlers.Inventory.Register(secured.Group("/inventory-items"))
	d.Handlers.Reports.Register(secured.Group("/reports"))

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "route not found")
	})

	return r
}

func healthHandler(d RouterDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":      "ok",
			"environment": d.App.Environment,
			"version":     d.App.Version,
		}

		if d.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.HealthCheck(ctx); err != nil {
				d.Log.Warn("health check failed", zap.Error(err))
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
		}

		c.JSON(status, body)
	}
}
