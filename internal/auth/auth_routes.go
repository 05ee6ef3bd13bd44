package auth

import (
	"github.com/erfanhabeeb666/keralaspiceerp/internal/middleware"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *rbac.Enforcer) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(1, 5), handler.Login)
		auth.POST("/refresh", handler.RefreshToken)
		auth.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/logout", middleware.AuthMiddleware(), handler.Logout)
		auth.POST("/register", middleware.AuthMiddleware(), rbac.Authorize(enforcer, "employee", "create"), handler.Register)
	}
}
