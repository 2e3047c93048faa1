package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbaylon/interntrack/internal/app/controllers"
	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/middleware"
	"github.com/mbaylon/interntrack/internal/pkg/live"
	"github.com/mbaylon/interntrack/internal/pkg/metrics"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	requirementController *controllers.RequirementController,
	notificationController *controllers.NotificationController,
	companyController *controllers.CompanyController,
	statsController *controllers.StatsController,
	adminController *controllers.AdminController,
	liveHandler *live.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{Data: gin.H{"status": "ok"}})
	})

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.GetMe)

		students := authenticated.Group("/students")
		{
			students.GET("", studentController.ListStudents)
			students.POST("", studentController.CreateStudent)
			students.GET("/:id", studentController.GetStudent)
			students.PUT("/:id", studentController.UpdateStudent)
			students.DELETE("/:id", studentController.DeleteStudent)
			students.POST("/batch-delete", studentController.BatchDeleteStudents)

			students.GET("/:id/requirements", requirementController.GetStudentRequirements)
			students.PUT("/:id/requirements/:name", requirementController.UpdateRequirementStatus)
			students.GET("/:id/requirements/:name/files/:index", requirementController.DownloadRequirementFile)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.ListNotifications)
			notifications.POST("", notificationController.CreateNotification)
			notifications.DELETE("/:id", notificationController.DeleteNotification)
		}

		authenticated.GET("/companies", companyController.GetCompanies)
		authenticated.GET("/companies/:id", companyController.GetCompany)
		authenticated.GET("/programs", companyController.GetPrograms)

		authenticated.GET("/stats", statsController.GetStats)

		// Live dashboard feed; the WebSocket upgrade happens in the handler
		authenticated.GET("/live", liveHandler.HandleConnection)

		// --- Admin-only routes ---
		admin := authenticated.Group("")
		admin.Use(authMiddleware.RequireRoles(string(models.RoleAdmin)))
		{
			admin.POST("/users", authController.CreateUser)
			admin.GET("/users", authController.GetUsers)

			admin.GET("/students/deleted", studentController.ListDeletedStudents)

			admin.POST("/admin/students/import", adminController.ImportStudents)
			admin.GET("/admin/students/export/csv", adminController.ExportStudentsCSV)
			admin.GET("/admin/students/export/xlsx", adminController.ExportStudentsXLSX)
			admin.POST("/admin/avatars/migrate", adminController.MigrateAvatars)
			admin.POST("/admin/avatars/migrate/:id", adminController.MigrateStudentAvatar)
			admin.GET("/admin/audit", adminController.GetAuditLog)
		}
	}

	// Prometheus scrape endpoint (public, outside the API version group)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
