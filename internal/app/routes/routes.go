package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schedulepro/internal/app/controllers"
	"github.com/yigit/schedulepro/internal/app/models/dto"
	"github.com/yigit/schedulepro/internal/middleware"
	"github.com/yigit/schedulepro/internal/pkg/auth"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	catalogController *controllers.CatalogController,
	solveController *controllers.SolveController,
	exportController *controllers.ExportController,
	authMiddleware *middleware.AuthMiddleware,
	solveLimiter *middleware.RateLimiter,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/login", authController.Login)
	}

	catalog := v1.Group("/catalog")
	{
		catalog.GET("", catalogController.GetCatalog)
		catalog.GET("/courses", catalogController.GetCourses)
	}

	// Solve is public but rate-limited per client IP.
	v1.POST("/solve", solveLimiter.Limit(), solveController.Solve)

	export := v1.Group("/export")
	{
		export.POST("/ics", exportController.ExportICS)
		export.POST("/csv", exportController.ExportCSV)
	}

	// --- Admin routes ---
	admin := v1.Group("/catalog")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(auth.RoleAdmin))
	{
		admin.POST("/ingest", catalogController.IngestCSV)
		admin.POST("/reload", catalogController.ReloadCatalog)
		admin.DELETE("", catalogController.ClearCatalog)
	}

	// Swagger routes are set up in bootstrap.go already
}
