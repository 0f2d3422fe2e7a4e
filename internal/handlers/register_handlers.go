package handlers

import (
	"fmt"
	"net/http"

	portssvc "github.com/SscSPs/accounting_core/internal/core/ports/services"
	"github.com/SscSPs/accounting_core/internal/dto"
	"github.com/SscSPs/accounting_core/internal/middleware"
	"github.com/SscSPs/accounting_core/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidations(v); err != nil {
			return fmt.Errorf("failed to register validations: %w", err)
		}
	}

	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid rate limit %q: %w", cfg.RateLimit, err)
	}

	v1 := r.Group("/api/v1", middleware.RateLimit(rateLimiter), middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User)
	registerJournalRoutes(v1, services.Journal)
	return nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "X-Request-ID")
	return c
}
