package router

import (
	"net/http"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/authstate"
	"github.com/Renan360Brasil/melody-academy-control/internal/authz"
	"github.com/Renan360Brasil/melody-academy-control/internal/config"
	"github.com/Renan360Brasil/melody-academy-control/internal/handler"
	"github.com/Renan360Brasil/melody-academy-control/internal/middleware"
	"github.com/Renan360Brasil/melody-academy-control/internal/notify"
	"github.com/Renan360Brasil/melody-academy-control/internal/response"
	"github.com/Renan360Brasil/melody-academy-control/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Student    *handler.StudentHandler
	Teacher    *handler.TeacherHandler
	Course     *handler.CourseHandler
	Enrollment *handler.EnrollmentHandler
	Payment    *handler.PaymentHandler
	Class      *handler.ClassHandler
	Dashboard  *handler.DashboardHandler
	Setting    *handler.SettingHandler
	Profile    *handler.ProfileHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups. Each protected group is
// bound to the page route it backs, so the permission table decides who
// gets in: admin-only pages carry their own route guard while the
// schedule and settings groups are open to every role.
func SetupRouter(
	authService *service.AuthService,
	sessions *service.SessionRegistry,
	tracker *authstate.Tracker,
	notifier notify.Notifier,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(authService, sessions)
	guard := func(route string) gin.HandlerFunc {
		return middleware.RequireRoute(tracker, notifier, route)
	}

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/signup", handlers.Auth.SignUp)
		auth.GET("/confirm", handlers.Auth.Confirm)

		auth.POST("/logout", requireAuth, handlers.Auth.Logout)
		auth.POST("/refresh", requireAuth, handlers.Auth.Refresh)
		auth.GET("/me", requireAuth, handlers.Auth.Me)
	}

	// ─── 2. Dashboard ("/" page, every role) ───────────────────────────
	dashboard := router.Group("/api/v1/dashboard")
	dashboard.Use(requireAuth, guard(authz.HomeRoute))
	{
		dashboard.GET("/stats", handlers.Dashboard.Stats)
	}

	// ─── 3. Admin Pages ────────────────────────────────────────────────
	students := router.Group("/api/v1/students")
	students.Use(requireAuth, guard("/students"))
	{
		students.GET("", handlers.Student.List)
		students.GET("/:id", handlers.Student.Get)
		students.POST("", handlers.Student.Create)
		students.PUT("/:id", handlers.Student.Update)
		students.DELETE("/:id", handlers.Student.Delete)
	}

	teachers := router.Group("/api/v1/teachers")
	teachers.Use(requireAuth, guard("/teachers"))
	{
		teachers.GET("", handlers.Teacher.List)
		teachers.GET("/:id", handlers.Teacher.Get)
		teachers.POST("", handlers.Teacher.Create)
		teachers.PUT("/:id", handlers.Teacher.Update)
		teachers.DELETE("/:id", handlers.Teacher.Delete)
	}

	courses := router.Group("/api/v1/courses")
	courses.Use(requireAuth, guard("/courses"))
	{
		courses.GET("", handlers.Course.List)
		courses.GET("/:id", handlers.Course.Get)
		courses.POST("", handlers.Course.Create)
		courses.PUT("/:id", handlers.Course.Update)
		courses.DELETE("/:id", handlers.Course.Delete)
	}

	enrollments := router.Group("/api/v1/enrollments")
	enrollments.Use(requireAuth, guard("/enrollments"))
	{
		enrollments.GET("", handlers.Enrollment.List)
		enrollments.GET("/:id", handlers.Enrollment.Get)
		enrollments.POST("", handlers.Enrollment.Create)
		enrollments.POST("/:id/cancel", handlers.Enrollment.Cancel)
	}

	payments := router.Group("/api/v1/payments")
	payments.Use(requireAuth, guard("/financial"))
	{
		payments.GET("", handlers.Payment.List)
		payments.GET("/summary", handlers.Payment.Summary)
		payments.POST("/:id/pay", handlers.Payment.MarkPaid)
	}

	// ─── 4. Schedule ("/schedule" page, every role) ────────────────────
	classes := router.Group("/api/v1/classes")
	classes.Use(requireAuth, guard("/schedule"))
	{
		classes.GET("", handlers.Class.List)
		classes.POST("", middleware.RequireAdmin(), handlers.Class.Create)
		classes.PUT("/:id", middleware.RequireAdmin(), handlers.Class.Update)
		classes.DELETE("/:id", middleware.RequireAdmin(), handlers.Class.Delete)
	}

	// ─── 5. Settings ("/settings" page, every role) ────────────────────
	settings := router.Group("/api/v1/settings")
	settings.Use(requireAuth, guard("/settings"))
	{
		settings.GET("", handlers.Setting.GetAll)
		settings.PUT("", middleware.RequireAdmin(), handlers.Setting.Update)
	}

	profile := router.Group("/api/v1/profile")
	profile.Use(requireAuth, guard("/settings"))
	{
		profile.PUT("", handlers.Profile.Update)
		profile.PUT("/password", handlers.Profile.ChangePassword)
	}

	// ─── 6. WebSocket (token via query param) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(requireAuth)
	{
		ws.GET("/notifications", handlers.WS.Notifications)
	}

	return router
}
