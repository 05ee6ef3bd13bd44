package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/attendance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/employee"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leavebalance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/clock"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/connection"

	"go.uber.org/zap"
)

const defaultGenerateAt = "00:05"

// RunScheduler fires the attendance generator once at startup (so a
// restart catches up on today) and then every day at GENERATE_AT UTC.
// Re-runs are harmless: the generator skips days that already exist.
func RunScheduler() error {
	logger := zap.L().Named("app.scheduler")

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

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	clk := clock.System()
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	ledger := leavebalance.NewLedger(sqlDB, balanceRepo)
	attendanceService := attendance.NewService(sqlDB, attendanceRepo, employeeRepo, leaveRepo, ledger, clk)

	generateAt := os.Getenv("GENERATE_AT")
	if generateAt == "" {
		generateAt = defaultGenerateAt
	}
	fireAt, err := time.Parse("15:04", generateAt)
	if err != nil {
		logger.Warn("invalid GENERATE_AT, using default",
			zap.String("generate_at", generateAt),
		)
		fireAt, _ = time.Parse("15:04", defaultGenerateAt)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runDaily(ctx, attendanceService, clk, fireAt.Hour(), fireAt.Minute(), logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("scheduler shutting down")
	cancel()

	return nil
}

func runDaily(
	ctx context.Context,
	svc attendance.Service,
	clk clock.Clock,
	hour, minute int,
	logger *zap.Logger,
) {
	generate := func() {
		day := clock.Today(clk)
		report, err := svc.GenerateForDate(ctx, day)
		if err != nil {
			logger.Error("scheduled attendance generation failed",
				zap.String("date", day.Format("2006-01-02")),
				zap.Error(err),
			)
			return
		}
		logger.Info("scheduled attendance generation finished",
			zap.String("date", report.Date),
			zap.Int("processed", report.Processed),
			zap.Int("present", report.Present),
			zap.Int("on_leave", report.OnLeave),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed),
		)
	}

	generate()

	for {
		now := clk.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			generate()
		}
	}
}
