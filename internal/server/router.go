package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/mediaplan-backend/internal/handlers"
	"github.com/yungbote/mediaplan-backend/internal/middleware"
)

type RouterConfig struct {
	PlanImportHandler *handlers.PlanImportHandler
	MasterDataHandler *handlers.MasterDataHandler
	RequestLogger     *middleware.RequestLogger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("mediaplan"))
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handle())
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Import pipeline
		plans := api.Group("/plans")
		plans.POST("/upload", cfg.PlanImportHandler.Upload)
		plans.POST("/sessions/:id/validate", cfg.PlanImportHandler.Validate)
		plans.POST("/sessions/:id/import", cfg.PlanImportHandler.Import)
		plans.GET("/sessions/:id", cfg.PlanImportHandler.GetSession)

		// Master data
		master := api.Group("/master")
		master.GET("/sub-regions", cfg.MasterDataHandler.ListSubRegions)
		master.GET("/countries", cfg.MasterDataHandler.ListCountries)
		master.GET("/business-units", cfg.MasterDataHandler.ListBusinessUnits)
		master.GET("/categories", cfg.MasterDataHandler.ListCategories)
		master.GET("/ranges", cfg.MasterDataHandler.ListRanges)
		master.GET("/media-types", cfg.MasterDataHandler.ListMediaTypes)
	}

	return router
}
