package handlers

import (
	"fmt"
	"net/http"

	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/SscSPs/erp_finance_core/internal/middleware"
	"github.com/SscSPs/erp_finance_core/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterValidators installs the custom binding tags on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return dto.RegisterValidators(v)
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// gatherer may be nil, in which case no metrics route is exposed. apiMiddleware
// runs on /api/v1 after authentication.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	gatherer prometheus.Gatherer,
	apiMiddleware ...gin.HandlerFunc,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if gatherer != nil && cfg.MetricsPath != "" {
		r.GET(cfg.MetricsPath, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	setupAPIV1Routes(r, cfg, services, apiMiddleware)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, apiMiddleware []gin.HandlerFunc) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	v1.Use(apiMiddleware...)

	registerAccountRoutes(v1, services.Account)
	registerJournalRoutes(v1, services.Journal)
	registerPeriodRoutes(v1, services.Period)
	registerWorkflowRoutes(v1, services.Workflow, services.Bulk)
	registerStatementRoutes(v1, services.Statements)
	registerBudgetRoutes(v1, services.Budget)
}
