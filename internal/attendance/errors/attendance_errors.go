package attendanceerrors

import (
	"net/http"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/apperror"
)

var (
	ErrAttendanceNotFound   = apperror.New(apperror.CodeNotFound, "attendance record not found", http.StatusNotFound)
	ErrInvalidEmployeeID    = apperror.New(apperror.CodeInvalidInput, "invalid employee id", http.StatusBadRequest)
	ErrInvalidDate          = apperror.New(apperror.CodeInvalidInput, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
	ErrInvalidDateRange     = apperror.New(apperror.CodeInvalidInput, "from date must be on or before to date", http.StatusBadRequest)
	ErrDirectoryUnavailable = apperror.New(apperror.CodeServiceUnavailable, "employee directory unavailable", http.StatusServiceUnavailable)
)
