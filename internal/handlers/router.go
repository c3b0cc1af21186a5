package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stwalsh4118/rentaltax/internal/logger"
	"github.com/stwalsh4118/rentaltax/internal/middleware"
	"github.com/stwalsh4118/rentaltax/internal/services"
)

// RouterConfig carries everything NewRouter needs to build the HTTP surface.
type RouterConfig struct {
	Services     *services.Services
	Store        Pinger
	Logger       *logger.Logger
	StoreBackend string
	Env          string
	DefaultActor string
	CORSOrigins  []string
}

// NewRouter builds the gin engine with middleware and every API route registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Add middleware in order: RequestID -> Actor -> Logger -> Recovery -> CORS -> Metrics
	router.Use(middleware.RequestID())
	router.Use(middleware.Actor(cfg.DefaultActor))
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.Metrics())

	healthHandler := NewHealthHandler(cfg.Store, cfg.StoreBackend, cfg.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	svc := cfg.Services
	settingsHandler := NewSettingsHandler(svc.Settings)
	propertyHandler := NewPropertyHandler(svc.Properties, svc.Workpapers)
	workpaperHandler := NewWorkpaperHandler(svc.Workpapers, svc.Activities, svc.Summaries)
	expenseHandler := NewExpenseHandler(svc.Expenses)
	evidenceHandler := NewEvidenceHandler(svc.Evidence)
	contributorHandler := NewContributorHandler(svc.Contributors)
	portfolioHandler := NewPortfolioHandler(svc.Portfolio, svc.Summaries)
	taxReturnHandler := NewTaxReturnHandler(svc.TaxReturns, svc.Registry)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", healthHandler.Info)

		v1.GET("/settings", settingsHandler.Get)
		v1.PUT("/settings", settingsHandler.Update)

		properties := v1.Group("/properties")
		{
			properties.POST("", propertyHandler.Create)
			properties.GET("", propertyHandler.List)
			properties.GET("/:id", propertyHandler.Get)
			properties.PATCH("/:id", propertyHandler.Update)
			properties.DELETE("/:id", propertyHandler.Delete)
			properties.GET("/:id/workpapers", propertyHandler.ListWorkpapers)
			properties.POST("/:id/workpapers", propertyHandler.CreateWorkpaper)
		}

		workpapers := v1.Group("/workpapers/:id")
		{
			workpapers.GET("", workpaperHandler.Get)
			workpapers.PATCH("", workpaperHandler.UpdateInputs)
			workpapers.POST("/calculate", workpaperHandler.Calculate)
			workpapers.POST("/transition", workpaperHandler.Transition)
			workpapers.GET("/diagnostics", workpaperHandler.Diagnostics)
			workpapers.GET("/activities", workpaperHandler.Activities)
			workpapers.GET("/summary", workpaperHandler.Summary)

			workpapers.POST("/expenses", expenseHandler.Add)
			workpapers.PATCH("/expenses/:lineId", expenseHandler.Update)
			workpapers.DELETE("/expenses/:lineId", expenseHandler.Remove)
			workpapers.POST("/expenses/:lineId/evidence/:evidenceId", expenseHandler.LinkEvidence)
			workpapers.DELETE("/expenses/:lineId/evidence/:evidenceId", expenseHandler.UnlinkEvidence)

			workpapers.POST("/evidence", evidenceHandler.Add)
			workpapers.GET("/evidence", evidenceHandler.List)

			workpapers.GET("/contributors", contributorHandler.List)
			workpapers.POST("/contributors", contributorHandler.Add)
			workpapers.PATCH("/contributors/:contributorId", contributorHandler.UpdateRole)
			workpapers.POST("/contributors/:contributorId/owner", contributorHandler.AssignOwner)
		}

		v1.DELETE("/evidence/:evidenceId", evidenceHandler.Remove)

		v1.GET("/portfolio", portfolioHandler.Totals)
		v1.GET("/rental-summaries", portfolioHandler.RentalSummaries)

		v1.GET("/jurisdictions", taxReturnHandler.Jurisdictions)

		taxReturns := v1.Group("/tax-returns")
		{
			taxReturns.POST("", taxReturnHandler.Generate)
			taxReturns.GET("", taxReturnHandler.List)
			taxReturns.GET("/:id", taxReturnHandler.Get)
			taxReturns.POST("/:id/validate", taxReturnHandler.Validate)
			taxReturns.POST("/:id/transition", taxReturnHandler.Transition)
			taxReturns.POST("/:id/lock", taxReturnHandler.Lock)
			taxReturns.GET("/:id/export", taxReturnHandler.Export)
		}
	}

	return router
}
