package employee

import (
	"github.com/erfanhabeeb666/keralaspiceerp/internal/middleware"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *rbac.Enforcer) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.POST("", rbac.Authorize(enforcer, "employee", "create"), handler.Create)
		employees.GET("", rbac.Authorize(enforcer, "employee", "read_all"), handler.GetAll)
		employees.GET("/:id", rbac.Authorize(enforcer, "employee", "read"), handler.GetByID)
		employees.PUT("/:id/deactivate", rbac.Authorize(enforcer, "employee", "create"), handler.Deactivate)
	}
}
