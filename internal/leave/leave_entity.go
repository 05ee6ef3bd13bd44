package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// IsTerminal reports whether a status permits no further transitions.
// APPROVED is not terminal: the owner may still cancel before the
// leave starts.
func IsTerminal(status string) bool {
	return status == StatusRejected || status == StatusCancelled
}

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates;index:idx_leave_requests_employee_status"`

	LeaveType string    `gorm:"type:varchar(10);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays int       `gorm:"not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(15);not null;default:'PENDING';index:idx_leave_requests_employee_status"`
	AppliedAt       time.Time  `gorm:"not null;autoCreateTime"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// Covers reports whether the inclusive [StartDate, EndDate] range
// contains the given calendar day.
func (l LeaveRequest) Covers(day time.Time) bool {
	return !day.Before(l.StartDate) && !day.After(l.EndDate)
}
