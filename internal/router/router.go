package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ucao-academy/web-academy-api/internal/handler"
	"github.com/ucao-academy/web-academy-api/internal/middleware"
	"github.com/ucao-academy/web-academy-api/internal/models"
	"github.com/ucao-academy/web-academy-api/internal/service"
	"github.com/ucao-academy/web-academy-api/pkg/config"
	"github.com/ucao-academy/web-academy-api/pkg/logger"
	corsmiddleware "github.com/ucao-academy/web-academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ucao-academy/web-academy-api/pkg/middleware/requestid"

	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Course       *handler.CourseHandler
	Category     *handler.CategoryHandler
	Filiere      *handler.FiliereHandler
	Guide        *handler.GuideHandler
	Tool         *handler.ToolHandler
	News         *handler.NewsHandler
	Schedule     *handler.ScheduleHandler
	Exam         *handler.ExamHandler
	Subscription *handler.SubscriptionHandler
	Settings     *handler.SettingsHandler
	Export       *handler.ExportHandler
	Upload       *handler.UploadHandler
	Health       *handler.HealthHandler
}

// New builds the gin engine with all middleware and routes mounted.
func New(cfg *config.Config, logr *zap.Logger, authService *service.AuthService, metricsService *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.Uploads.PublicBaseURL != "" && cfg.Uploads.StorageDir != "" {
		r.Static(cfg.Uploads.PublicBaseURL, cfg.Uploads.StorageDir)
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)

		auth.GET("/me", middleware.JWT(authService), h.Auth.Me)
		auth.POST("/logout", middleware.JWT(authService), h.Auth.Logout)
		auth.POST("/change-password", middleware.JWT(authService), h.Auth.ChangePassword)
	}

	// Published guides, tools and news are readable without a session so the
	// public landing pages work.
	public := api.Group("", middleware.OptionalJWT(authService))
	{
		public.GET("/guides", h.Guide.List)
		public.GET("/guides/:id", h.Guide.Get)
		public.GET("/tools", h.Tool.List)
		public.GET("/tools/:id", h.Tool.Get)
		public.GET("/news", h.News.List)
		public.GET("/news/:id", h.News.Get)
	}

	authed := api.Group("", middleware.JWT(authService))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin)

	users := authed.Group("/users")
	{
		users.GET("", adminOnly, h.User.List)
		users.POST("", adminOnly, h.User.Create)
		users.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), h.User.Get)
		users.PUT("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), h.User.Update)
		users.DELETE("/:id", adminOnly, h.User.Delete)
	}

	courses := authed.Group("/courses")
	{
		courses.GET("", h.Course.List)
		courses.GET("/mine", staff, h.Course.ListMine)
		courses.GET("/:id", h.Course.Get)
		courses.POST("", staff, h.Course.Create)
		courses.PUT("/:id", staff, h.Course.Update)
		courses.PATCH("/:id/status", staff, h.Course.UpdateStatus)
		courses.DELETE("/:id", staff, h.Course.Delete)
	}

	categories := authed.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.POST("", adminOnly, h.Category.Create)
		categories.PUT("/:id", adminOnly, h.Category.Update)
		categories.DELETE("/:id", adminOnly, h.Category.Delete)
	}

	filieres := authed.Group("/filieres")
	{
		filieres.GET("", h.Filiere.List)
		filieres.GET("/:id", h.Filiere.Get)
		filieres.POST("", adminOnly, h.Filiere.Create)
		filieres.PUT("/:id", adminOnly, h.Filiere.Update)
		filieres.DELETE("/:id", adminOnly, h.Filiere.Delete)
	}

	guides := authed.Group("/guides")
	{
		guides.POST("", adminOnly, h.Guide.Create)
		guides.PUT("/:id", adminOnly, h.Guide.Update)
		guides.DELETE("/:id", adminOnly, h.Guide.Delete)
	}

	tools := authed.Group("/tools")
	{
		tools.POST("", adminOnly, h.Tool.Create)
		tools.PUT("/:id", adminOnly, h.Tool.Update)
		tools.DELETE("/:id", adminOnly, h.Tool.Delete)
	}

	news := authed.Group("/news")
	{
		news.POST("", adminOnly, h.News.Create)
		news.PUT("/:id", adminOnly, h.News.Update)
		news.DELETE("/:id", adminOnly, h.News.Delete)
	}

	schedule := authed.Group("/schedule")
	{
		schedule.GET("", h.Schedule.List)
		schedule.GET("/:id", h.Schedule.Get)
		schedule.POST("", staff, h.Schedule.Create)
		schedule.PUT("/:id", staff, h.Schedule.Update)
		schedule.DELETE("/:id", staff, h.Schedule.Delete)
	}

	exams := authed.Group("/exams")
	{
		exams.GET("", h.Exam.List)
		exams.GET("/:id", h.Exam.Get)
		exams.POST("", adminOnly, h.Exam.Create)
		exams.PUT("/:id", adminOnly, h.Exam.Update)
		exams.DELETE("/:id", adminOnly, h.Exam.Delete)
	}

	subscriptions := authed.Group("/subscriptions")
	{
		subscriptions.GET("", h.Subscription.List)
		subscriptions.GET("/:id", h.Subscription.Get)
		subscriptions.POST("", h.Subscription.Create)
		subscriptions.PATCH("/:id/status", h.Subscription.UpdateStatus)
	}

	settings := authed.Group("/settings")
	{
		settings.GET("", h.Settings.List)
		settings.GET("/:key", h.Settings.Get)
		settings.PUT("", middleware.RequireSuperAdmin(), h.Settings.BulkUpdate)
		settings.PUT("/:key", middleware.RequireSuperAdmin(), h.Settings.Update)
	}

	authed.GET("/exports/students", adminOnly, h.Export.Students)
	authed.POST("/uploads", staff, h.Upload.Upload)
	authed.GET("/admin/metrics", adminOnly, h.Health.MetricsSnapshot)

	return r
}
