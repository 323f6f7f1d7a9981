package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	cookieStore "github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/tracklite/project-tracker/internal/config"
	"github.com/tracklite/project-tracker/internal/database"
	"github.com/tracklite/project-tracker/internal/handlers"
	"github.com/tracklite/project-tracker/internal/logger"
	"github.com/tracklite/project-tracker/internal/middleware"
	"github.com/tracklite/project-tracker/internal/repository"
	"github.com/tracklite/project-tracker/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zapLogger))

	store, err := newSessionStore(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to create session store", zap.Error(err))
	}
	r.Use(sessions.Sessions("tracker_session", store))

	// Wire repositories, services and handlers
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)
	reportService := services.NewReportService(reportRepo)

	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Tracker API is running",
		})
	})

	// Auth routes (public except profile)
	auth := r.Group("/auth")
	{
		auth.POST("/signup/", authHandler.Signup)
		auth.POST("/login/", authHandler.Login)
		auth.POST("/logout/", authHandler.Logout)
	}

	users := r.Group("/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("/profile/", authHandler.Profile)
	}

	// Project routes (protected)
	projects := r.Group("/projects")
	projects.Use(middleware.RequireAuth())
	{
		projects.GET("/", projectHandler.ListProjects)
		projects.POST("/create/", projectHandler.CreateProject)
		projects.GET("/:id/", middleware.RequireProjectAccess(), projectHandler.GetProject)
		projects.POST("/:id/update/", middleware.RequireProjectAccess(), projectHandler.UpdateProject)
		projects.DELETE("/:id/delete/", middleware.RequireProjectAccess(), projectHandler.DeleteProject)
	}

	// Task routes (protected). On /tasks/:id/create/ the wildcard addresses
	// the parent project, everywhere else the task itself.
	tasks := r.Group("/tasks")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.GET("/", taskHandler.ListTasks)
		tasks.POST("/create/", taskHandler.CreateTask)
		tasks.GET("/:id/", middleware.RequireTaskAccess(), taskHandler.GetTask)
		tasks.POST("/:id/create/", middleware.RequireProjectAccess(), taskHandler.CreateProjectTask)
		tasks.POST("/:id/update/", middleware.RequireTaskAccess(), taskHandler.UpdateTask)
		tasks.DELETE("/:id/delete/", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
		tasks.POST("/:id/toggle/", middleware.RequireTaskAccess(), taskHandler.ToggleCompletion)
	}

	// Reporting routes (protected)
	reports := r.Group("/reports")
	reports.Use(middleware.RequireAuth())
	{
		reports.GET("/statuses/", reportHandler.DistinctStatuses)
		reports.GET("/project-task-counts/", reportHandler.ProjectTaskCounts)
		reports.GET("/project-tasks/", reportHandler.ProjectTasks)
		reports.GET("/projects-containing/", reportHandler.ProjectsContainingLetter)
		reports.GET("/duplicate-task-names/", reportHandler.DuplicateTaskNames)
		reports.GET("/duplicate-tasks/", reportHandler.DuplicateTasks)
		reports.GET("/busy-projects/", reportHandler.BusyProjects)
	}

	// Start server
	zapLogger.Info("Server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}

// newSessionStore returns a Redis-backed store when REDIS_HOST is set and
// falls back to a signed cookie store otherwise.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	isProduction := cfg.GinMode == "release"
	options := sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	}

	if cfg.RedisHost != "" {
		store, err := redisStore.NewStore(
			10,
			"tcp",
			cfg.RedisHost+":"+cfg.RedisPort,
			"",
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store.Options(options)
		return store, nil
	}

	store := cookieStore.NewStore([]byte(cfg.SessionSecret))
	store.Options(options)
	return store, nil
}
