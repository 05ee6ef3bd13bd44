package user

import (
	"time"

	"github.com/google/uuid"
)

// Roles are a capability tag on a single identity type, checked where
// the capability matters; there is no admin subtype.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index"`
	Name       string     `gorm:"type:varchar(100);not null"`
	Email      string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email"`
	Password   string     `gorm:"type:varchar(255);not null"`
	Role       string     `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (User) TableName() string {
	return "users"
}
