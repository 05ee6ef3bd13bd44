package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusLeave   = "LEAVE"
)

// Attendance is one materialized calendar day per employee. The unique
// index is the storage-level backstop for the generator's
// check-then-insert idempotency.
type Attendance struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	AttendanceDate time.Time  `gorm:"type:date;not null;uniqueIndex:uq_attendance_employee_date;index"`
	Status         string     `gorm:"type:varchar(10);not null;default:'PRESENT'"`
	LeaveRequestID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Attendance) TableName() string {
	return "attendances"
}
