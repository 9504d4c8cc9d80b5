package router

import (
	"context"
	"net/http"
	"time"

	"employee_manager/internal/handler"
	"employee_manager/internal/middleware"
	"employee_manager/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const ServiceName = "employee-manager"

// Pinger reports database health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds everything the HTTP layer needs
type Deps struct {
	Log             *zap.Logger
	DB              Pinger
	AuthService     service.AuthService
	EmployeeService service.EmployeeService
	Images          handler.ImageStore
	UploadsDir      string
	AllowedOrigins  []string
}

// New builds the gin engine with middleware and all routes
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TracingMiddleware(ServiceName))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.PrometheusMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	jwtAuthMW := middleware.JWTAuthMiddleware(d.AuthService, d.Log)
	adminRoleMW := middleware.AdminMiddleware()

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running")
	})
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			d.Log.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", d.UploadsDir)

	apiGroup := r.Group("/api/v1")
	handler.NewAuthHandler(d.AuthService, d.Log).RegisterAuthRoutes(apiGroup, jwtAuthMW)
	handler.NewEmployeeHandler(d.EmployeeService, d.Images, d.Log).RegisterEmployeeRoutes(apiGroup, jwtAuthMW, adminRoleMW)

	return r
}
