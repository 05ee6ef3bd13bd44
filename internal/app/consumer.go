package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/attendance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/employee"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/events"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leavebalance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/messaging/kafka/consumer"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/clock"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer runs the leave decision consumer that corrects
// attendance for approvals landing after the day was generated.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	ledger := leavebalance.NewLedger(sqlDB, balanceRepo)
	attendanceService := attendance.NewService(sqlDB, attendanceRepo, employeeRepo, leaveRepo, ledger, clock.System())

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.LeaveDecidedTopic,
		GroupID:        "keralaspiceerp-attendance",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveDecisions(ctx, reader, leaveRepo, attendanceService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
