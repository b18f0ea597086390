package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nivkeren/wellness-coach/internal/domain/auth"
	"github.com/nivkeren/wellness-coach/internal/infra/config"
)

// Handlers bundles the transport handlers for router assembly.
type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Plan    *PlanHandler
	Chat    *ChatHandler
}

// NewHandlers groups the individual handlers.
func NewHandlers(authHandler *AuthHandler, profileHandler *ProfileHandler, planHandler *PlanHandler, chatHandler *ChatHandler) *Handlers {
	return &Handlers{
		Auth:    authHandler,
		Profile: profileHandler,
		Plan:    planHandler,
		Chat:    chatHandler,
	}
}

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handlers *Handlers, authSvc auth.Service, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/refresh", handlers.Auth.Refresh)
		authGroup.GET("/google/url", handlers.Auth.GoogleURL)
		authGroup.GET("/google/callback", handlers.Auth.GoogleCallback)

		authed := authGroup.Group("")
		authed.Use(authMiddleware(authSvc))
		authed.GET("/me", handlers.Auth.Me)
		authed.POST("/logout", handlers.Auth.Logout)
	}

	users := api.Group("/users")
	users.Use(authMiddleware(authSvc))
	{
		users.GET("/profile", handlers.Profile.Get)
		users.PUT("/profile", handlers.Profile.Update)
	}

	plans := api.Group("/plans")
	plans.Use(authMiddleware(authSvc))
	{
		plans.POST("/generate", handlers.Plan.Generate)
		plans.GET("/current", handlers.Plan.Current)
	}

	chat := api.Group("/chat")
	chat.Use(authMiddleware(authSvc))
	{
		chat.POST("/message", handlers.Chat.Message)
		chat.GET("/history", handlers.Chat.History)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
