package main

import (
	"log"
	"log/slog"
	"net/http"

	"socialfeed/backend/internal/auth"
	"socialfeed/backend/internal/config"
	"socialfeed/backend/internal/database"
	"socialfeed/backend/internal/handler"
	"socialfeed/backend/internal/middleware"
	"socialfeed/backend/internal/util"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "socialfeed/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Socialfeed API
// @version         1.0
// @description     Authenticated social feed: friends, requests, posts, comments and likes.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := util.GetLogger(slog.LevelInfo)

	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	if config.AppConfig.SeedData {
		if err := database.Seed(database.DB); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	router := gin.New()
	router.Use(gin.Logger(), middleware.PanicHandler(), middleware.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", handler.Register)
			authRoutes.POST("/login", handler.Login)
		}

		// User routes (protected)
		userRoutes := api.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me/status", handler.UpdateStatus)
		}

		// Friend routes (protected)
		friendRoutes := api.Group("/friends")
		friendRoutes.Use(auth.AuthMiddleware())
		{
			friendRoutes.GET("", handler.ListFriends)
			friendRoutes.GET("/suggestions", handler.ListSuggestions)
			friendRoutes.GET("/requests", handler.ListRequests)
			friendRoutes.POST("/requests", handler.SendFriendRequest)
			friendRoutes.POST("/requests/:id/accept", handler.AcceptRequest)
			friendRoutes.POST("/requests/:id/decline", handler.DeclineRequest)
		}

		// Post routes (protected)
		postRoutes := api.Group("/posts")
		postRoutes.Use(auth.AuthMiddleware())
		{
			postRoutes.GET("", handler.ListFeed)
			postRoutes.POST("", handler.CreatePost)
			postRoutes.POST("/:id/comments", handler.AddComment)
			postRoutes.POST("/:id/like", handler.TogglePostLike)
			postRoutes.POST("/:id/comments/:commentId/like", handler.ToggleCommentLike)
		}
	}

	addr := ":" + config.AppConfig.Port
	logger.Info("Server is running", "addr", addr)
	logger.Info("Swagger UI is available", "url", "http://localhost"+addr+"/swagger/index.html")
	log.Fatal(router.Run(addr))
}
