package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/attendance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/events"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConsumeLeaveDecisions watches the leave decision topic and fixes up
// attendance for approvals that landed after the day was already
// generated as PRESENT. The request is re-read from the database so a
// decision that got superseded (e.g. cancelled) is not applied.
func ConsumeLeaveDecisions(
	ctx context.Context,
	reader *kafkago.Reader,
	leaveRepo leave.Repository,
	attendanceService attendance.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decisions")
	log.Info("leave decisions consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decisions consumer stopped")
				return
			}
			log.Error("fetch leave decision message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.EventType != events.LeaveApprovedEventType {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		leaveID, err := uuid.Parse(event.LeaveID)
		if err != nil {
			log.Error("invalid leave id in event", zap.String("leave_id", event.LeaveID))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		lr, err := leaveRepo.FindByID(ctx, leaveID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn("leave request from event not found, skipping",
					zap.String("leave_id", event.LeaveID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("load leave request failed",
				zap.String("leave_id", event.LeaveID),
				zap.Error(err),
			)
			continue
		}

		if lr.Status != leave.StatusApproved {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		flipped, err := attendanceService.CorrectForApprovedLeave(ctx, lr)
		if err != nil {
			log.Error("attendance correction failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decision message failed", zap.Error(err))
			continue
		}

		if flipped > 0 {
			log.Info("attendance corrected from leave.approved event",
				zap.String("leave_id", event.LeaveID),
				zap.String("employee_id", event.EmployeeID),
				zap.Int("days_flipped", flipped),
			)
		}
	}
}
