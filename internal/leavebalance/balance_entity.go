package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeCasual    = "CL"
	TypeSick      = "SL"
	TypeLossOfPay = "LOP"
)

const (
	DefaultCasualDays = 12
	DefaultSickDays   = 6

	// LOP is effectively unbounded; the sentinel keeps the row shape
	// uniform while Deduct never touches its remaining figure.
	lossOfPaySentinel = 999
)

// IsUnbounded reports whether a leave type is exempt from balance
// enforcement. Usage is still tracked for reporting.
func IsUnbounded(leaveType string) bool {
	return leaveType == TypeLossOfPay
}

func ValidType(leaveType string) bool {
	switch leaveType {
	case TypeCasual, TypeSick, TypeLossOfPay:
		return true
	}
	return false
}

type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_employee_type_year"`
	LeaveType  string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_balance_employee_type_year"`
	Year       int       `gorm:"not null;uniqueIndex:uq_balance_employee_type_year"`
	Total      int       `gorm:"not null"`
	Used       int       `gorm:"not null;default:0"`
	Remaining  int       `gorm:"not null"`
	UpdatedAt  time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// HasSufficient reports whether the balance covers the requested days.
func (b LeaveBalance) HasSufficient(requestedDays int) bool {
	return b.Remaining >= requestedDays
}

// DefaultBalances returns the balance rows created at employee
// onboarding for one leave year.
func DefaultBalances(employeeID uuid.UUID, year int) []LeaveBalance {
	return []LeaveBalance{
		{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			LeaveType:  TypeCasual,
			Year:       year,
			Total:      DefaultCasualDays,
			Used:       0,
			Remaining:  DefaultCasualDays,
		},
		{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			LeaveType:  TypeSick,
			Year:       year,
			Total:      DefaultSickDays,
			Used:       0,
			Remaining:  DefaultSickDays,
		},
		{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			LeaveType:  TypeLossOfPay,
			Year:       year,
			Total:      lossOfPaySentinel,
			Used:       0,
			Remaining:  lossOfPaySentinel,
		},
	}
}
