package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/identity-service/internal/application"
	"github.com/oksasatya/identity-service/internal/container"
	handlers "github.com/oksasatya/identity-service/internal/interface/http"
	"github.com/oksasatya/identity-service/internal/interface/middleware"
)

// AuthModule wires the identity HTTP handlers and bearer-token middleware.
// Public:    POST /api/auth/register, POST /api/auth/login
// Protected: POST /api/auth/logout, GET /api/auth/me, PUT /api/auth/password
type AuthModule struct {
	Handler *handlers.AuthHandler
	Tokens  application.TokenService
}

func NewAuthModule(h *handlers.AuthHandler, tokens application.TokenService) *AuthModule {
	return &AuthModule{Handler: h, Tokens: tokens}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/auth")

	// Public, rate limited per IP. Registration is not idempotent, so the
	// budget is tighter than login.
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	grp.POST("/register", registerLimiter, m.Handler.Register)
	grp.POST("/login", loginLimiter, m.Handler.Login)

	// Protected
	auth := grp.Group("/")
	auth.Use(middleware.RequireAuth(m.Tokens))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/password", m.Handler.ChangePassword)
	}
}
