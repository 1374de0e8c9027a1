package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/teamtrackr/project-tracker/internal/config"
	"github.com/teamtrackr/project-tracker/internal/database"
	"github.com/teamtrackr/project-tracker/internal/email"
	"github.com/teamtrackr/project-tracker/internal/handlers"
	"github.com/teamtrackr/project-tracker/internal/logger"
	"github.com/teamtrackr/project-tracker/internal/middleware"
	"github.com/teamtrackr/project-tracker/internal/repository"
	"github.com/teamtrackr/project-tracker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.Configure(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatal().Err(err).Msg("failed to add indexes")
		}
	}

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)

	// Initialize services
	inviteSender := email.NewInviteSender(email.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUser,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.SMTPFrom,
	}, logger.Get())

	authService := services.NewAuthService(userRepo)
	deptService := services.NewDepartmentService(deptRepo, studentRepo)
	studentService := services.NewStudentService(studentRepo, teamRepo, deptRepo, interviewRepo)
	teamService := services.NewTeamService(teamRepo, studentRepo, deptRepo, interviewRepo)
	interviewService := services.NewInterviewService(interviewRepo, studentRepo, teamRepo, deptRepo, inviteSender)
	statsService := services.NewStatsService(teamRepo, studentRepo, deptRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	deptHandler := handlers.NewDepartmentHandler(deptService, statsService)
	studentHandler := handlers.NewStudentHandler(studentService)
	teamHandler := handlers.NewTeamHandler(teamService)
	interviewHandler := handlers.NewInterviewHandler(interviewService, teamService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == "release",
	})
	r.Use(sessions.Sessions("tracker_session", store))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Completion Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Department routes (protected)
		depts := api.Group("/departments")
		depts.Use(middleware.RequireAuth())
		{
			depts.POST("", deptHandler.CreateDepartment)
			depts.GET("", deptHandler.ListDepartments)
			depts.GET("/team-counts", deptHandler.DepartmentTeamCounts)
			depts.DELETE("/:id", deptHandler.DeleteDepartment)
		}

		// Student routes (protected)
		students := api.Group("/students")
		students.Use(middleware.RequireAuth())
		{
			students.POST("", studentHandler.CreateStudent)
			students.GET("", studentHandler.ListStudents)
			students.POST("/bulk-delete", studentHandler.DeleteStudentsBulk)
			students.GET("/:id", studentHandler.GetStudent)
			students.PATCH("/:id", studentHandler.UpdateStudent)
			students.DELETE("/:id", studentHandler.DeleteStudent)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth())
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("", teamHandler.ListTeams)
			teams.POST("/bulk-delete", teamHandler.DeleteTeamsBulk)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PATCH("/:id", teamHandler.UpdateTeam)
			teams.PATCH("/:id/checkpoints", teamHandler.UpdateCheckpoint)
			teams.PATCH("/:id/checkpoints/bulk", teamHandler.UpdateCheckpointsBulk)
			teams.DELETE("/:id", teamHandler.DeleteTeam)
		}

		// Interview routes (protected)
		interviews := api.Group("/interviews")
		interviews.Use(middleware.RequireAuth())
		{
			interviews.POST("", interviewHandler.UpsertInterview)
			interviews.GET("", interviewHandler.ListInterviews)
			interviews.GET("/overview", interviewHandler.GetOverview)
			interviews.POST("/invite", interviewHandler.SendInvite)
			interviews.POST("/team/:id", interviewHandler.UpsertTeamInterviews)
			interviews.GET("/team/:id", interviewHandler.GetTeamInterviewStats)
			interviews.GET("/student/:id", interviewHandler.GetStudentInterview)
			interviews.GET("/department/:id", interviewHandler.GetDepartmentInterviewStats)
		}

		// Statistics routes (protected)
		stats := api.Group("/stats")
		stats.Use(middleware.RequireAuth())
		{
			stats.GET("", statsHandler.GetSnapshot)
			stats.GET("/departments", statsHandler.GetDepartmentBreakdown)
			stats.GET("/teams", statsHandler.GetTeamListing)
		}
	}

	// Start server
	log.Info().Msg("server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
