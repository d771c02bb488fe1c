package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/socialgram/socialgram-server/internal/auth"
	"github.com/socialgram/socialgram-server/internal/config"
	"github.com/socialgram/socialgram-server/internal/presence"
	"github.com/socialgram/socialgram-server/internal/service/messages"
	"github.com/socialgram/socialgram-server/internal/store"
)

// NewServer builds the HTTP server with all routes.
func NewServer(hub *presence.Hub, authService *auth.Service, msgService *messages.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	authHandlers := NewAuthHandlers(authService, logger)
	messageHandlers := NewMessageHandlers(msgService, logger)
	postHandlers := NewPostHandlers(st, logger)

	api := router.Group("/api", IdentityMiddleware(authService, logger))
	{
		api.POST("/auth/register", authHandlers.Register)
		api.POST("/auth/login", authHandlers.Login)

		authed := api.Group("", RequireAuth())
		{
			authed.POST("/message/send", messageHandlers.Send)
			authed.GET("/message/:userId/:interlocutorId", messageHandlers.Dialog)

			authed.POST("/post", postHandlers.CreatePost)
			authed.GET("/posts", postHandlers.ListPosts)
			authed.POST("/post/:postId/comment", postHandlers.CreateComment)
			authed.POST("/post/:postId/like", postHandlers.LikePost)
			authed.DELETE("/post/:postId/like", postHandlers.UnlikePost)
		}
	}

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	_, _ = fmt.Fprint(c.Writer, "ok")
}
