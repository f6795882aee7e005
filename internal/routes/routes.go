package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hackmatch/team-platform/internal/config"
	"github.com/hackmatch/team-platform/internal/database"
	"github.com/hackmatch/team-platform/internal/handlers"
	"github.com/hackmatch/team-platform/internal/middleware"
	"github.com/hackmatch/team-platform/internal/services"
)

func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":       "ok",
			"db_connected": database.GetDB() != nil,
		})
	})

	// Initialize services
	authService := services.NewAuthService(cfg)
	membershipService := services.NewMembershipService()
	recommendationService := services.NewRecommendationService(membershipService)
	portfolioService := services.NewPortfolioService(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(portfolioService)
	hackathonHandler := handlers.NewHackathonHandler()
	teamHandler := handlers.NewTeamHandler(membershipService)
	requestHandler := handlers.NewRequestHandler(membershipService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)

	// API routes
	api := router.Group("/api")

	// Middleware to check database readiness
	api.Use(func(c *gin.Context) {
		if database.GetDB() == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Service initializing, please try again shortly",
			})
			return
		}
		c.Next()
	})

	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/telegram", authHandler.TelegramLogin)

			// Protected auth routes
			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware(authService))
			{
				authProtected.GET("/me", authHandler.GetCurrentUser)
				authProtected.PUT("/profile", authHandler.UpdateProfile)
			}
		}

		// User routes
		users := api.Group("/users")
		users.Use(middleware.AuthMiddleware(authService))
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.GET("/:id/skills", userHandler.GetUserSkills)
			users.GET("/:id/achievements", userHandler.ListAchievements)
			users.POST("/:id/achievements", userHandler.AddAchievement)
			users.GET("/:id/portfolio.pdf", userHandler.DownloadPortfolio)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Hackathon routes
		hackathons := api.Group("/hackathons")
		{
			hackathons.GET("", hackathonHandler.ListHackathons)
			hackathons.GET("/:id", hackathonHandler.GetHackathon)

			hackathonsProtected := hackathons.Group("")
			hackathonsProtected.Use(middleware.AuthMiddleware(authService))
			{
				hackathonsProtected.POST("", hackathonHandler.CreateHackathon)
				hackathonsProtected.PUT("/:id", hackathonHandler.UpdateHackathon)
				hackathonsProtected.DELETE("/:id", hackathonHandler.DeleteHackathon)
			}
		}

		// Team routes
		teams := api.Group("/teams")
		teams.Use(middleware.AuthMiddleware(authService))
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("", teamHandler.ListTeams)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", teamHandler.UpdateTeam)
			teams.DELETE("/:id", teamHandler.DissolveTeam)
			teams.POST("/:id/join", teamHandler.JoinTeam)
			teams.POST("/:id/leave", teamHandler.LeaveTeam)
			teams.DELETE("/:id/members/:userID", teamHandler.KickMember)
			teams.POST("/:id/invite/:userID", teamHandler.InviteToTeam)
			teams.GET("/:id/requests", teamHandler.ListTeamRequests)
			teams.POST("/:id/requests/:requestID/respond", teamHandler.RespondToRequest)
			teams.POST("/:id/recommendations", recommendationHandler.RecommendForTeam)
		}

		// Request routes
		requests := api.Group("/requests")
		requests.Use(middleware.AuthMiddleware(authService))
		{
			requests.POST("", requestHandler.CreateRequest)
			requests.GET("/sent", requestHandler.ListSent)
			requests.GET("/received", requestHandler.ListReceived)
			requests.POST("/:id/accept", requestHandler.AcceptRequest)
			requests.POST("/:id/decline", requestHandler.DeclineRequest)
			requests.DELETE("/:id", requestHandler.CancelRequest)
		}

		// Recommendation routes
		recommendations := api.Group("/recommendations")
		recommendations.Use(middleware.AuthMiddleware(authService))
		{
			recommendations.POST("", recommendationHandler.Recommend)
			recommendations.GET("/stats", recommendationHandler.Stats)
		}
	}

	return router
}
