// Package httpserver assembles the gin engine: the shared middleware
// chain, the operational endpoints, and the public and bearer-protected
// route trees.
package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tahien663-cpu/chat-api/internal/config"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure"
	middleware "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/middlewares"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/auth"
	v1 "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1"
)

type HTTPServer struct {
	engine    *gin.Engine
	infra     *infrastructure.Infrastructure
	v1Route   *v1.V1Route
	authRoute *auth.AuthRoute
	config    *config.Config
}

func NewHttpServer(
	v1Route *v1.V1Route,
	authRoute *auth.AuthRoute,
	infra *infrastructure.Infrastructure,
	cfg *config.Config,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		gin.New(),
		infra,
		v1Route,
		authRoute,
		cfg,
	}
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(infra.Logger))
	server.engine.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	server.engine.Use(middleware.MetricsMiddleware())

	server.engine.GET("/healthz", server.GetHealthz)
	server.engine.GET("/readyz", server.GetReadyz)
	server.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &server
}

// GetHealthz godoc
// @Summary Liveness check
// @Description Reports that the process is up. Carries no dependency checks.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Process is alive"
// @Router /healthz [get]
func (httpServer *HTTPServer) GetHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadyz godoc
// @Summary Readiness check
// @Description Reports whether the server can take traffic: the database answers a ping and the token validator holds a JWKS.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Ready for traffic"
// @Failure 503 {object} map[string]string "A dependency is not ready"
// @Router /readyz [get]
func (httpServer *HTTPServer) GetReadyz(c *gin.Context) {
	sqlDB, err := httpServer.infra.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "database"})
		return
	}

	if !httpServer.infra.TokenValidator.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "jwks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (httpServer *HTTPServer) Run() error {
	// Public routes (no auth required)
	root := httpServer.engine.Group("/")

	// Protected routes (bearer token required)
	protected := httpServer.engine.Group("/")
	protected.Use(
		middleware.AuthMiddleware(httpServer.infra.TokenValidator, httpServer.infra.Logger),
	)

	httpServer.authRoute.RegisterRouter(root)
	httpServer.v1Route.RegisterRouter(protected)

	if err := httpServer.engine.Run(fmt.Sprintf(":%d", httpServer.config.HTTPPort)); err != nil {
		return err
	}
	return nil
}
