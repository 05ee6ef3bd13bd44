package leavebalance

import (
	"net/http"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/apperror"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/clock"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Ledger
	clk     clock.Clock
	logger  *zap.Logger
}

func NewHandler(service Ledger, clk clock.Clock, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leavebalance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.handler")
	}
	return &Handler{service: service, clk: clk, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("balance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetMine returns the caller's balances for the current leave year.
func (h *Handler) GetMine(c *gin.Context) {
	employeeID := c.GetString("employee_id")
	year := clock.Today(h.clk).Year()

	resp, err := h.service.GetBalances(c.Request.Context(), employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// GetByEmployee returns any employee's balances (admin view).
func (h *Handler) GetByEmployee(c *gin.Context) {
	employeeID := c.Param("employeeId")
	year := clock.Today(h.clk).Year()

	resp, err := h.service.GetBalances(c.Request.Context(), employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
