package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeCode string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employees_code"`
	FullName     string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_employees_email"`
	Status       string    `gorm:"type:varchar(10);not null;default:'ACTIVE';index"`
	JoinDate     time.Time `gorm:"type:date;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Employee) TableName() string {
	return "employees"
}
