package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/employee/errors"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/events"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leavebalance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/messaging/kafka"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/clock"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	ListActive(ctx context.Context) ([]EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) (EmployeeResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	balances leavebalance.Repository
	outbox   kafka.OutboxRepository
	clk      clock.Clock
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balances leavebalance.Repository,
	outbox kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, balances: balances, outbox: outbox, clk: clk, logger: l}
}

// Create onboards an employee: the employee row, the current-year
// balance rows (CL/SL/LOP defaults), and the outbox event all commit
// in one transaction.
func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("create employee requested",
		zap.String("employee_code", req.EmployeeCode),
		zap.String("email", req.Email),
	)

	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoinDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e := &Employee{
		ID:           uuid.New(),
		EmployeeCode: req.EmployeeCode,
		FullName:     req.FullName,
		Email:        req.Email,
		Status:       StatusActive,
		JoinDate:     joinDate,
	}

	if err := qtx.Create(ctx, e); err != nil {
		mapped := mapPersistError(err)
		s.logger.Warn("create employee persist failed", zap.Error(mapped))
		return EmployeeResponse{}, mapped
	}

	year := clock.Today(s.clk).Year()
	qbal := s.balances.WithTx(tx)
	for _, b := range leavebalance.DefaultBalances(e.ID, year) {
		balance := b
		if err := qbal.Create(ctx, &balance); err != nil {
			s.logger.Error("create employee balance init failed",
				zap.String("leave_type", balance.LeaveType),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := s.writeCreatedEvent(ctx, tx, e, year); err != nil {
		s.logger.Error("create employee outbox write failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("employee_id", e.ID.String()),
		zap.String("employee_code", e.EmployeeCode),
		zap.Int("balance_year", year),
	)
	return mapToResponse(*e), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	employeeUUID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, employeeUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) ListActive(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) Deactivate(ctx context.Context, id string) (EmployeeResponse, error) {
	employeeUUID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, employeeUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	if e.Status == StatusInactive {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeInactive
	}

	e.Status = StatusInactive
	if err := qtx.Update(ctx, e); err != nil {
		return EmployeeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("deactivate employee success", zap.String("employee_id", id))
	return mapToResponse(*e), nil
}

func (s *service) writeCreatedEvent(ctx context.Context, tx *sql.Tx, e *Employee, year int) error {
	payload, err := json.Marshal(events.EmployeeCreatedEvent{
		EventType:      "employee.created",
		EmployeeID:     e.ID.String(),
		EmployeeCode:   e.EmployeeCode,
		BalancesOfYear: year,
		OccurredAt:     s.clk.Now(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "employee",
		AggregateID:   e.ID.String(),
		EventType:     "employee.created",
		Topic:         events.EmployeeCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID.String(),
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Status:       e.Status,
		JoinDate:     e.JoinDate.Format("2006-01-02"),
	}
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp
}
