package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/contacthub/backend/internal/handlers"
	"github.com/contacthub/backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	ContactHandler *handlers.ContactHandler
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	requireAuth := cfg.AuthMiddleware.RequireAuth()

	users := router.Group("/api/users")
	{
		users.GET("", cfg.UserHandler.GetUsers)
		users.POST("", cfg.AuthHandler.Register)
		users.POST("/login", cfg.AuthHandler.Login)
		users.GET("/:id", requireAuth, cfg.UserHandler.GetUser)
		users.PUT("/:id", requireAuth, cfg.UserHandler.AddPhoto)
	}

	contacts := router.Group("/api/contacts")
	{
		contacts.GET("/info", cfg.ContactHandler.Info)
		contacts.GET("", requireAuth, cfg.ContactHandler.List)
		contacts.GET("/favorites", requireAuth, cfg.ContactHandler.Favorites)
		contacts.GET("/:id", requireAuth, cfg.ContactHandler.Get)
		contacts.DELETE("/:id", requireAuth, cfg.ContactHandler.Delete)
		contacts.POST("", requireAuth, cfg.ContactHandler.Create)
		contacts.PUT("/:id", requireAuth, cfg.ContactHandler.SetFavorite)
		contacts.PUT("/:id/update", requireAuth, cfg.ContactHandler.Update)
	}

	return router
}
