package attendance

import (
	"github.com/erfanhabeeb666/keralaspiceerp/internal/middleware"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the attendance endpoints. The manual generate
// trigger sits behind the idempotency middleware so a retried request
// replays the first run's report instead of running the batch twice.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *rbac.Enforcer, idempotency gin.HandlerFunc) {
	attendance := r.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware())
	{
		attendance.GET("/me", rbac.Authorize(enforcer, "attendance", "read"), handler.GetMine)
		attendance.GET("/me/summary", rbac.Authorize(enforcer, "attendance", "read"), handler.GetMySummary)
		attendance.GET("/employee/:employeeId", rbac.Authorize(enforcer, "attendance", "read_all"), handler.GetByEmployee)
		attendance.GET("/date/:date", rbac.Authorize(enforcer, "attendance", "read_all"), handler.GetByDate)
		attendance.POST("/generate", rbac.Authorize(enforcer, "attendance", "generate"), idempotency, handler.Generate)
		attendance.PUT("/mark-leave", rbac.Authorize(enforcer, "attendance", "generate"), handler.MarkLeave)
	}
}
