package app

import (
	"database/sql"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/attendance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/auth"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/employee"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leavebalance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/messaging/kafka"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/middleware"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/clock"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	clk := clock.System()

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	ledger := leavebalance.NewLedger(db, balanceRepo)
	employeeService := employee.NewService(db, employeeRepo, balanceRepo, outboxRepo, clk)
	leaveService := leave.NewService(db, leaveRepo, userRepo, ledger, outboxRepo, clk)
	attendanceService := attendance.NewService(db, attendanceRepo, employeeRepo, leaveRepo, ledger, clk)
	authService := auth.NewService(userRepo, employeeRepo)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	balanceHandler := leavebalance.NewHandler(ledger, clk)
	leaveHandler := leave.NewHandler(leaveService)
	attendanceHandler := attendance.NewHandler(attendanceService, clk)
	authHandler := auth.NewHandler(authService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, enforcer)
		employee.RegisterRoutes(api, employeeHandler, enforcer)
		leavebalance.RegisterRoutes(api, balanceHandler, enforcer)
		leave.RegisterRoutes(api, leaveHandler, enforcer)
		attendance.RegisterRoutes(api, attendanceHandler, enforcer, middleware.Idempotency(rdb))
	}

	return nil
}
