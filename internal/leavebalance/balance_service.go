package leavebalance

import (
	"context"
	"database/sql"
	"errors"

	balanceerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/leavebalance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger owns per-employee, per-type, per-year balance rows. Mutations
// hold a row lock for the duration of the transaction; after every
// mutation remaining equals total minus used, floored at zero for
// bounded types. LOP usage is tracked but never constrains remaining.
//
//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Ledger interface {
	GetBalance(ctx context.Context, employeeID, leaveType string, year int) (BalanceResponse, error)
	GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
	Deduct(ctx context.Context, employeeID, leaveType string, year, days int) error
	Restore(ctx context.Context, employeeID, leaveType string, year, days int) error
}

type ledger struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewLedger(db *sql.DB, repo Repository, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("leavebalance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.ledger")
	}
	return &ledger{db: db, repo: repo, logger: l}
}

func (s *ledger) GetBalance(ctx context.Context, employeeID, leaveType string, year int) (BalanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidEmployeeID
	}
	if !ValidType(leaveType) {
		return BalanceResponse{}, balanceerrors.ErrInvalidLeaveType
	}

	b, err := s.repo.FindByEmployeeTypeYear(ctx, employeeUUID, leaveType, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
		}
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *ledger) GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}

	rows, err := s.repo.FindByEmployeeAndYear(ctx, employeeUUID, year)
	if err != nil {
		return nil, err
	}

	resp := make([]BalanceResponse, len(rows))
	for i, b := range rows {
		resp[i] = mapToResponse(b)
	}
	return resp, nil
}

func (s *ledger) Deduct(ctx context.Context, employeeID, leaveType string, year, days int) error {
	return s.mutate(ctx, employeeID, leaveType, year, days, false)
}

func (s *ledger) Restore(ctx context.Context, employeeID, leaveType string, year, days int) error {
	return s.mutate(ctx, employeeID, leaveType, year, days, true)
}

func (s *ledger) mutate(ctx context.Context, employeeID, leaveType string, year, days int, restore bool) error {
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}
	if !ValidType(leaveType) {
		return balanceerrors.ErrInvalidLeaveType
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return balanceerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("balance mutation begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := qtx.FindForUpdate(ctx, employeeUUID, leaveType, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Onboarding creates every balance row, so a missing row is
			// defensive territory: skip rather than fail the caller.
			s.logger.Info("no balance row, skipping mutation",
				zap.String("employee_id", employeeID),
				zap.String("leave_type", leaveType),
				zap.Int("year", year),
			)
			return nil
		}
		s.logger.Error("balance lookup failed", zap.Error(err))
		return err
	}

	if restore {
		b.Used -= days
		if b.Used < 0 {
			b.Used = 0
		}
	} else {
		b.Used += days
	}
	if !IsUnbounded(b.LeaveType) {
		b.Remaining = b.Total - b.Used
		if b.Remaining < 0 {
			b.Remaining = 0
		}
	}

	if err := qtx.Update(ctx, b); err != nil {
		s.logger.Error("balance mutation persist failed", zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("balance mutation commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("balance mutated",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", leaveType),
		zap.Int("year", year),
		zap.Int("days", days),
		zap.Bool("restore", restore),
		zap.Int("used", b.Used),
		zap.Int("remaining", b.Remaining),
	)
	return nil
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:         b.ID.String(),
		EmployeeID: b.EmployeeID.String(),
		LeaveType:  b.LeaveType,
		Year:       b.Year,
		Total:      b.Total,
		Used:       b.Used,
		Remaining:  b.Remaining,
	}
}
