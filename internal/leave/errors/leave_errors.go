package leaveerrors

import (
	"fmt"
	"net/http"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidReviewerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid reviewer id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date cannot be before start_date",
		http.StatusBadRequest,
	)
	ErrStartDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"start_date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrOverlappingLeave = apperror.New(
		apperror.CodeConflict,
		"leave overlaps with another approved leave",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrReviewerNotFound = apperror.New(
		apperror.CodeNotFound,
		"reviewer not found",
		http.StatusNotFound,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"only pending leave requests can be reviewed",
		http.StatusConflict,
	)
	ErrAlreadyFinalized = apperror.New(
		apperror.CodeInvalidState,
		"leave request is already rejected or cancelled",
		http.StatusConflict,
	)
	ErrAlreadyStarted = apperror.New(
		apperror.CodeInvalidState,
		"cannot cancel leave that has already started",
		http.StatusConflict,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"you can only cancel your own leave requests",
		http.StatusForbidden,
	)
)

// ErrInsufficientBalance carries the requested and available day counts
// so clients can surface the shortfall.
func ErrInsufficientBalance(leaveType string, requested, available int) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidInput,
		fmt.Sprintf("insufficient %s balance: requested %d day(s), available %d", leaveType, requested, available),
		http.StatusBadRequest,
	)
}
