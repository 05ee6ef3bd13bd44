package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/events"
	leaveerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/leave/errors"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leavebalance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/messaging/kafka"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/clock"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/contextutil"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service drives a leave request through its lifecycle:
//
//	PENDING -> APPROVED | REJECTED   (reviewer)
//	PENDING | APPROVED -> CANCELLED  (owner, before the start date)
//
// Balance is checked at application time but deducted one day at a
// time by the attendance generator, so cancelling an approved leave
// before it starts costs nothing.
//
//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, employeeID string, req ApplyLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, id, reviewerID string) (LeaveResponse, error)
	Reject(ctx context.Context, id, reviewerID, rejectionReason string) (LeaveResponse, error)
	Cancel(ctx context.Context, id, employeeID string) (LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetPending(ctx context.Context) ([]LeaveResponse, error)
	GetAll(ctx context.Context) ([]LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	users  user.Repository
	ledger leavebalance.Ledger
	outbox kafka.OutboxRepository
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	ledger leavebalance.Ledger,
	outbox kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, users: users, ledger: ledger, outbox: outbox, clk: clk, logger: l}
}

func (s *service) Apply(ctx context.Context, employeeID string, req ApplyLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("apply leave requested",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if !leavebalance.ValidType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	today := clock.Today(s.clk)
	if startDate.Before(today) {
		return LeaveResponse{}, leaveerrors.ErrStartDateInPast
	}
	if endDate.Before(startDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	totalDays := countDays(startDate, endDate)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingApprovedLeave(ctx, employeeUUID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("apply leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("apply leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrOverlappingLeave
	}

	// Balance is validated here to reject impossible requests early but
	// only deducted per day by the attendance generator.
	if !leavebalance.IsUnbounded(req.LeaveType) {
		balance, err := s.ledger.GetBalance(ctx, employeeID, req.LeaveType, today.Year())
		if err != nil {
			return LeaveResponse{}, err
		}
		if balance.Remaining < totalDays {
			s.logger.Warn("apply leave insufficient balance",
				zap.String("employee_id", employeeID),
				zap.String("leave_type", req.LeaveType),
				zap.Int("requested", totalDays),
				zap.Int("available", balance.Remaining),
			)
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance(req.LeaveType, totalDays, balance.Remaining)
		}
	}

	l := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     StatusPending,
		AppliedAt:  s.clk.Now(),
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("apply leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("total_days", totalDays),
	)
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, id, reviewerID string) (LeaveResponse, error) {
	s.logger.Debug("approve leave requested",
		zap.String("leave_id", id),
		zap.String("reviewer_id", reviewerID),
	)

	leaveUUID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	reviewerUUID, err := uuid.Parse(reviewerID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidReviewerID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, leaveUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("approve leave invalid state",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	if _, err := s.users.GetByID(ctx, reviewerUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrReviewerNotFound
		}
		return LeaveResponse{}, err
	}

	// A second pending request for an overlapping window may have been
	// approved since this one was applied; re-check under the row lock.
	overlap, err := qtx.HasOverlappingApprovedLeave(ctx, l.EmployeeID, l.StartDate, l.EndDate, &l.ID)
	if err != nil {
		s.logger.Error("approve leave overlap recheck failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("approve leave overlap detected", zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.ErrOverlappingLeave
	}

	now := s.clk.Now()
	l.Status = StatusApproved
	l.ReviewedBy = &reviewerUUID
	l.ReviewedAt = &now
	l.RejectionReason = nil

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("approve leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.writeDecisionEvent(ctx, tx, l, events.LeaveApprovedEventType, reviewerUUID, now); err != nil {
		s.logger.Error("approve leave outbox write failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("approve leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("approve leave success",
		zap.String("leave_id", id),
		zap.String("reviewer_id", reviewerID),
	)
	return mapToResponse(*l), nil
}

func (s *service) Reject(ctx context.Context, id, reviewerID, rejectionReason string) (LeaveResponse, error) {
	s.logger.Debug("reject leave requested",
		zap.String("leave_id", id),
		zap.String("reviewer_id", reviewerID),
	)

	leaveUUID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	reviewerUUID, err := uuid.Parse(reviewerID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidReviewerID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, leaveUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	if _, err := s.users.GetByID(ctx, reviewerUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrReviewerNotFound
		}
		return LeaveResponse{}, err
	}

	now := s.clk.Now()
	l.Status = StatusRejected
	l.ReviewedBy = &reviewerUUID
	l.ReviewedAt = &now
	if rejectionReason != "" {
		l.RejectionReason = &rejectionReason
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("reject leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.writeDecisionEvent(ctx, tx, l, events.LeaveRejectedEventType, reviewerUUID, now); err != nil {
		s.logger.Error("reject leave outbox write failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("reject leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("reject leave success",
		zap.String("leave_id", id),
		zap.String("reviewer_id", reviewerID),
	)
	return mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, id, employeeID string) (LeaveResponse, error) {
	s.logger.Debug("cancel leave requested",
		zap.String("leave_id", id),
		zap.String("employee_id", employeeID),
	)

	leaveUUID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, leaveUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if l.EmployeeID != employeeUUID {
		s.logger.Warn("cancel leave ownership violation",
			zap.String("leave_id", id),
			zap.String("employee_id", employeeID),
		)
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if IsTerminal(l.Status) {
		return LeaveResponse{}, leaveerrors.ErrAlreadyFinalized
	}
	// An approved leave may still be cancelled before it starts; no
	// balance restore is needed because nothing was deducted yet.
	if !clock.Today(s.clk).Before(l.StartDate) {
		return LeaveResponse{}, leaveerrors.ErrAlreadyStarted
	}

	l.Status = StatusCancelled

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("cancel leave success",
		zap.String("leave_id", id),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	leaveUUID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}

	l, err := s.repo.FindByID(ctx, leaveUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	rows, err := s.repo.FindByEmployee(ctx, employeeUUID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetPending(ctx context.Context) ([]LeaveResponse, error) {
	rows, err := s.repo.FindByStatus(ctx, StatusPending)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) writeDecisionEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest, eventType string, reviewerID uuid.UUID, decidedAt time.Time) error {
	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:  eventType,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.TotalDays,
		ReviewedBy: reviewerID.String(),
		OccurredAt: decidedAt,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// countDays returns the inclusive day span of [startDate, endDate].
func countDays(startDate, endDate time.Time) int {
	return int(endDate.Sub(startDate).Hours()/24) + 1
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.TotalDays,
		Reason:     l.Reason,
		Status:     l.Status,
		AppliedAt:  l.AppliedAt.Format(time.RFC3339),
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToListResponse(rows []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(rows))
	for i, l := range rows {
		resp[i] = mapToResponse(l)
	}
	return resp
}
