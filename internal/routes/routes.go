package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"radiology-app-server/internal/ai"
	"radiology-app-server/internal/config"
	"radiology-app-server/internal/handlers"
	"radiology-app-server/internal/middleware"
	"radiology-app-server/internal/models"
	"radiology-app-server/internal/report"
	"radiology-app-server/internal/services"
	"radiology-app-server/internal/storage"
	"radiology-app-server/internal/store"
)

// SetupRoutes wires stores, services and handlers onto the router. The
// database handle, storage backend and optional AI predictor are constructed
// by the process entry point and injected here.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, files storage.ObjectStorage, predictor ai.Predictor) {
	userStore := store.NewGormUserStore(db)
	scanStore := store.NewGormScanStore(db)

	authService := services.NewAuthService(userStore)
	scanService := services.NewScanService(scanStore, files, predictor, services.SystemClock)
	analyticsService := services.NewAnalyticsService(scanStore, userStore, services.SystemClock)
	reportService := services.NewReportService(scanStore, files, report.NewRenderer(cfg.AppURL), services.SystemClock)

	authHandler := handlers.NewAuthHandler(authService, cfg)
	scanHandler := handlers.NewScanHandler(scanService, reportService)
	dashboardHandler := handlers.NewDashboardHandler(scanService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	healthHandler := handlers.NewHealthHandler(db, userStore, cfg)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			// Logout needs no session: it only clears the cookie, and a
			// retry after the cookie is gone must still succeed.
			authRoutes.POST("/logout", authHandler.Logout)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.GET("/profile", authHandler.Profile)
		}

		scanRoutes := private.Group("/scans")
		{
			scanRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleTechnician), scanHandler.Upload)
			scanRoutes.GET("/pending", middleware.RoleAuthMiddleware(models.RoleRadiologist), scanHandler.Pending)
			scanRoutes.GET("/mine", middleware.RoleAuthMiddleware(models.RoleTechnician), scanHandler.Mine)
			scanRoutes.GET("/completed", scanHandler.Completed)
			scanRoutes.GET("/:id", middleware.RoleAuthMiddleware(models.RoleRadiologist), scanHandler.Get)
			scanRoutes.POST("/:id/report", middleware.RoleAuthMiddleware(models.RoleRadiologist), scanHandler.SubmitReport)
			scanRoutes.GET("/:id/image", scanHandler.Image)
			scanRoutes.GET("/:id/pdf", scanHandler.GeneratePDF)
		}

		dashboardRoutes := private.Group("/dashboard")
		{
			dashboardRoutes.GET("/radiologist", middleware.RoleAuthMiddleware(models.RoleRadiologist), dashboardHandler.Radiologist)
			dashboardRoutes.GET("/technician", middleware.RoleAuthMiddleware(models.RoleTechnician), dashboardHandler.Technician)
		}

		analyticsRoutes := private.Group("/analytics")
		{
			analyticsRoutes.GET("/summary", analyticsHandler.Summary)
			analyticsRoutes.GET("/daily-scans", analyticsHandler.DailyScans)
			analyticsRoutes.GET("/scan-types", analyticsHandler.ScanTypes)
			analyticsRoutes.GET("/workload", middleware.RoleAuthMiddleware(models.RoleRadiologist, models.RoleAdmin), analyticsHandler.Workload)
			analyticsRoutes.GET("/heatmap", analyticsHandler.Heatmap)
			analyticsRoutes.GET("/performance", analyticsHandler.Performance)
		}
	}

	// Health check endpoint
	router.GET("/health", healthHandler.Health)
}
