package attendance

import (
	"net/http"
	"strconv"
	"time"

	attendanceerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/attendance/errors"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/apperror"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/clock"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	clk     clock.Clock
	logger  *zap.Logger
}

func NewHandler(service Service, clk clock.Clock, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Handler{service: service, clk: clk, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Generate is the manual trigger for the daily batch. It runs the same
// path as the scheduler; an omitted date means today.
func (h *Handler) Generate(c *gin.Context) {
	day := clock.Today(h.clk)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.writeServiceError(c, attendanceerrors.ErrInvalidDate)
			return
		}
		day = parsed
	}

	report, err := h.service.GenerateForDate(c.Request.Context(), day)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report, nil)
}

func (h *Handler) MarkLeave(c *gin.Context) {
	var req MarkLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http mark leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	if err := h.service.MarkAsLeaveByID(c.Request.Context(), req); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": true}, nil)
}

func (h *Handler) GetMine(c *gin.Context) {
	employeeID := c.GetString("employee_id")

	if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		resp, err := h.service.GetByEmployeeAndRange(c.Request.Context(), employeeID, from, to)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, resp, nil)
		return
	}

	resp, err := h.service.GetByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMySummary(c *gin.Context) {
	employeeID := c.GetString("employee_id")

	resp, err := h.service.GetSummary(c.Request.Context(), employeeID, c.Query("from"), c.Query("to"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	resp, err := h.service.GetByEmployee(c.Request.Context(), c.Param("employeeId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByDate(c *gin.Context) {
	resp, err := h.service.GetByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if pageSize < 1 {
		pageSize = 50
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}
