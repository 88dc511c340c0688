package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"feedbackapp/internal/config"
	"feedbackapp/internal/middleware"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"
)

// NewRouter wires the middleware stack and all routes.
func NewRouter(
	cfg *config.Config,
	userService *services.UserService,
	projectService *services.ProjectService,
	surveyService *services.SurveyService,
	feedbackService *services.FeedbackService,
	reportingService *services.ReportingService,
	resetService *services.PasswordResetService,
	logger *observability.Logger,
) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.RedirectTrailingSlash = false

	// Request logging through the structured logger.
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"http.method":      c.Request.Method,
			"http.path":        c.Request.URL.Path,
			"http.status_code": c.Writer.Status(),
			"http.latency_ms":  time.Since(start).Milliseconds(),
			"http.client_ip":   c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["http.error"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error(c.Request.Context(), "HTTP request failed", nil, fields)
		case status >= 400:
			logger.Warn(c.Request.Context(), "HTTP request warning", fields)
		default:
			logger.Info(c.Request.Context(), "HTTP request", fields)
		}
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "feedback-backend"})
	})

	router.Use(otelgin.Middleware("feedback-backend"))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	authHandler := NewAuthHandler(userService, logger)
	userAdminHandler := NewUserAdminHandler(userService, logger)
	projectHandler := NewProjectHandler(projectService, logger)
	surveyHandler := NewSurveyHandler(surveyService, logger)
	feedbackHandler := NewFeedbackHandler(feedbackService, logger)
	dashboardHandler := NewDashboardHandler(reportingService, logger)
	resetHandler := NewPasswordResetHandler(resetService, logger)

	authn := middleware.RequireAuth(&cfg.JWT, userService, logger)

	api := router.Group("/api")
	{
		api.POST("/signin", authHandler.Signin)
		api.POST("/signin/token", authn, authHandler.SigninWithToken)
		api.POST("/signup", authHandler.Signup)

		api.GET("/reset-password/:username", resetHandler.Request)
		api.PATCH("/reset-password", resetHandler.Complete)

		users := api.Group("/users", authn, middleware.RequireAdmin())
		{
			users.GET("", userAdminHandler.List)
			users.POST("", userAdminHandler.Create)
			users.PATCH("/:id", userAdminHandler.Update)
			users.DELETE("/:id", userAdminHandler.Delete)
		}

		projects := api.Group("/projects", authn)
		{
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.POST("", middleware.RequireAdmin(), projectHandler.Create)
			projects.PATCH("/:id", middleware.RequireAdmin(), projectHandler.Update)
			// DELETE stays unregistered: projects anchor historical feedback.
		}

		surveys := api.Group("/surveys", authn)
		{
			surveys.GET("", surveyHandler.List)
			surveys.GET("/:id", surveyHandler.Get)
			surveys.POST("", middleware.RequireAdmin(), surveyHandler.Create)
			surveys.PATCH("/:id", middleware.RequireAdmin(), surveyHandler.Update)
		}

		feedbacks := api.Group("/feedbacks", authn)
		{
			feedbacks.POST("", feedbackHandler.Submit)
			feedbacks.GET("", feedbackHandler.History)
			feedbacks.GET("/latest", feedbackHandler.Latest)
			feedbacks.PATCH("/:id", feedbackHandler.ReplaceSections)
		}

		dashboard := api.Group("/dashboard/projects", authn)
		{
			dashboard.POST("/history", dashboardHandler.History)
			dashboard.POST("/summary", dashboardHandler.Summary)
		}
	}

	return router
}
