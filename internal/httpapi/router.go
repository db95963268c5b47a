// Package httpapi - REST API доски: посты, комментарии, пользователь сессии.
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MosinFAM/comment-threads/config"
	"github.com/MosinFAM/comment-threads/internal/auth"
	"github.com/MosinFAM/comment-threads/internal/graph"
	"github.com/MosinFAM/comment-threads/internal/logger"
	"github.com/MosinFAM/comment-threads/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Deps - зависимости API
type Deps struct {
	Storage   storage.Storage
	Issuer    *auth.Issuer
	Log       logrus.FieldLogger
	RateLimit config.RateLimit
	// TrustedProxies - адреса прокси, чьему X-Forwarded-For верим; nil - никому
	TrustedProxies []string
	// DevSignIn включает POST /session, выдающий токен без проверки пароля
	DevSignIn bool
}

// New собирает gin-роутер с CORS поверх
func New(deps Deps) (http.Handler, error) {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}

	gqlHandler, err := graph.New(deps.Storage)
	if err != nil {
		return nil, err
	}

	h := &handler{store: deps.Storage, issuer: deps.Issuer, log: deps.Log}
	limiter := NewRateLimiter(deps.RateLimit.PerMinute, deps.RateLimit.Burst)

	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, fmt.Errorf("httpapi.New: %w", err)
	}
	router.Use(RequestID(), logger.Middleware(deps.Log), gin.Recovery())

	apiGroup := router.Group("/api/v1")
	{
		apiGroup.GET("/ping", h.ping)
		apiGroup.POST("/graphql", gin.WrapH(gqlHandler))

		apiGroup.GET("/boards/:board/posts/:postId", h.getPost)
		apiGroup.GET("/boards/:board/posts/:postId/comments", h.listComments)

		authGroup := apiGroup.Group("")
		authGroup.Use(Authenticate(deps.Issuer))
		{
			authGroup.GET("/users/me", h.me)
			authGroup.POST("/boards/:board/comments", limiter.Middleware(), h.createComment)
			authGroup.POST("/boards/:board/comments/delete", limiter.Middleware(), h.deleteComment)
		}

		if deps.DevSignIn {
			apiGroup.POST("/session", limiter.Middleware(), h.signIn)
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         int((300 * time.Second).Seconds()),
	})
	return c.Handler(router), nil
}
