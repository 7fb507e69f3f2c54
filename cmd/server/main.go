package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/cloudtask/task-service/internal/config"
	"github.com/cloudtask/task-service/internal/constants"
	"github.com/cloudtask/task-service/internal/database"
	"github.com/cloudtask/task-service/internal/handlers"
	"github.com/cloudtask/task-service/internal/middleware"
	"github.com/cloudtask/task-service/internal/repository"
	"github.com/cloudtask/task-service/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Token verification against the identity provider's JWKS
	verifier, err := middleware.NewTokenVerifier(cfg.AuthJWKSURL, cfg.AuthIssuer, cfg.AuthAudience)
	if err != nil {
		log.Fatalf("Failed to initialize token verifier: %v", err)
	}

	// Initialize repositories
	db := database.GetDB()
	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	membershipService := services.NewMembershipService(projectRepo, memberRepo, userRepo)
	assignmentService := services.NewAssignmentService(taskRepo, membershipService)
	taskService := services.NewTaskService(taskRepo, projectRepo, membershipService)
	projectService := services.NewProjectService(projectRepo, userRepo, membershipService)
	userService := services.NewUserService(userRepo)

	// Initialize handlers
	taskHandler := handlers.NewTaskHandler(taskService, assignmentService)
	projectHandler := handlers.NewProjectHandler(projectService, taskService, membershipService)
	userHandler := handlers.NewUserHandler(userService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task service is running",
		})
	})

	// API routes
	api := r.Group("/api")
	api.Use(middleware.RequireAuth(verifier))
	{
		users := api.Group("/users")
		{
			users.POST("/sync", userHandler.Sync)
			users.GET("/me", userHandler.Me)
		}

		projects := api.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/members", projectHandler.ListMembers)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.DELETE("/:id/members/:uid", projectHandler.RemoveMember)
			projects.GET("/:id/tasks", projectHandler.ProjectTasks)
			projects.GET("/:id/tasks/unassigned", projectHandler.UnassignedTasks)
			projects.GET("/:id/tasks/assigned", projectHandler.AssignedTasks)
		}

		tasks := api.Group("/tasks")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/assigned-to-me", taskHandler.MyTasks)
			tasks.POST("/bulk-assign", taskHandler.BulkAssign)
			tasks.POST("/bulk-unassign", taskHandler.BulkUnassign)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/assign", taskHandler.AssignTask)
			tasks.PUT("/:id/assign", taskHandler.ReassignTask)
			tasks.POST("/:id/unassign", taskHandler.UnassignTask)
			tasks.POST("/:id/assignees", taskHandler.AssignMultiple)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
