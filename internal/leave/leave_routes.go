package leave

import (
	"github.com/erfanhabeeb666/keralaspiceerp/internal/middleware"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *rbac.Enforcer) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", rbac.Authorize(enforcer, "leave", "apply"), handler.Apply)
		leaves.GET("/me", rbac.Authorize(enforcer, "leave", "read"), handler.GetMine)
		leaves.GET("/pending", rbac.Authorize(enforcer, "leave", "review"), handler.GetPending)
		leaves.GET("", rbac.Authorize(enforcer, "leave", "review"), handler.GetAll)
		leaves.GET("/:id", rbac.Authorize(enforcer, "leave", "read"), handler.GetByID)
		leaves.PUT("/:id/approve", rbac.Authorize(enforcer, "leave", "review"), handler.Approve)
		leaves.PUT("/:id/reject", rbac.Authorize(enforcer, "leave", "review"), handler.Reject)
		leaves.PUT("/:id/cancel", rbac.Authorize(enforcer, "leave", "apply"), handler.Cancel)
	}
}
