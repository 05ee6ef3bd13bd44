package leavebalance

import (
	"github.com/erfanhabeeb666/keralaspiceerp/internal/middleware"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *rbac.Enforcer) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/me", rbac.Authorize(enforcer, "balance", "read"), handler.GetMine)
		balances.GET("/employee/:employeeId", rbac.Authorize(enforcer, "balance", "read_all"), handler.GetByEmployee)
	}
}
