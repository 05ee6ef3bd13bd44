package app

import (
	"os"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/attendance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/employee"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leavebalance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/connection"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const outboxSchema = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id TEXT,
	aggregate_type TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	topic TEXT NOT NULL,
	payload JSONB NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	error_message TEXT,
	next_retry_at TIMESTAMPTZ,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// BuildApp connects the infrastructure, migrates the schema, and
// registers every module's routes on the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	return registerModules(router, sqlDB, gormDB, redisClient)
}

func migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&employee.Employee{},
		&user.User{},
		&leavebalance.LeaveBalance{},
		&leave.LeaveRequest{},
		&attendance.Attendance{},
	); err != nil {
		return err
	}
	// The outbox is raw SQL, outside gorm's models.
	return gormDB.Exec(outboxSchema).Error
}
