package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/attendance/errors"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/employee"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
	leaveerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/leave/errors"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leavebalance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service materializes one attendance record per active employee per
// day. Generation is idempotent: existing records are never touched,
// and the unique index catches the race where two runs insert the same
// day concurrently.
//
//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	GenerateForDate(ctx context.Context, day time.Time) (GenerationReport, error)
	MarkAsLeave(ctx context.Context, employeeID uuid.UUID, day time.Time, lr *leave.LeaveRequest) (bool, error)
	CorrectForApprovedLeave(ctx context.Context, lr *leave.LeaveRequest) (int, error)
	MarkAsLeaveByID(ctx context.Context, req MarkLeaveRequest) error
	GetByEmployee(ctx context.Context, employeeID string) ([]AttendanceResponse, error)
	GetByEmployeeAndRange(ctx context.Context, employeeID, from, to string) ([]AttendanceResponse, error)
	GetByDate(ctx context.Context, date string) ([]AttendanceResponse, error)
	GetSummary(ctx context.Context, employeeID, from, to string) (SummaryResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	leaves    leave.Repository
	ledger    leavebalance.Ledger
	clk       clock.Clock
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, leaves leave.Repository, ledger leavebalance.Ledger, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &service{db: db, repo: repo, employees: employees, leaves: leaves, ledger: ledger, clk: clk, logger: l}
}

// GenerateForDate runs the daily batch for one calendar day. A failure
// for one employee is logged and counted, the rest of the roster still
// gets processed. Only an unreachable employee directory fails the run.
func (s *service) GenerateForDate(ctx context.Context, day time.Time) (GenerationReport, error) {
	day = clock.DateOf(day)
	report := GenerationReport{Date: day.Format("2006-01-02")}

	roster, err := s.employees.FindActive(ctx)
	if err != nil {
		s.logger.Error("employee directory lookup failed", zap.Error(err))
		return report, attendanceerrors.ErrDirectoryUnavailable
	}

	for _, emp := range roster {
		report.Processed++
		onLeave, created, err := s.generateForEmployee(ctx, emp.ID, day)
		if err != nil {
			report.Failed++
			s.logger.Error("attendance generation failed for employee",
				zap.String("employee_id", emp.ID.String()),
				zap.String("date", report.Date),
				zap.Error(err),
			)
			continue
		}
		switch {
		case !created:
			report.Skipped++
		case onLeave:
			report.OnLeave++
		default:
			report.Present++
		}
	}

	s.logger.Info("attendance generation finished",
		zap.String("date", report.Date),
		zap.Int("processed", report.Processed),
		zap.Int("present", report.Present),
		zap.Int("on_leave", report.OnLeave),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *service) generateForEmployee(ctx context.Context, employeeID uuid.UUID, day time.Time) (onLeave, created bool, err error) {
	if _, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, day); err == nil {
		return false, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, false, err
	}

	leaves, err := s.leaves.FindApprovedLeavesForDate(ctx, employeeID, day)
	if err != nil {
		return false, false, err
	}

	record := &Attendance{
		EmployeeID:     employeeID,
		AttendanceDate: day,
		Status:         StatusPresent,
	}
	var covering *leave.LeaveRequest
	if len(leaves) > 0 {
		covering = &leaves[0]
		record.Status = StatusLeave
		record.LeaveRequestID = &covering.ID
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if isUniqueViolation(err) {
			// Another run inserted this day between our check and insert.
			return false, false, nil
		}
		return false, false, err
	}

	if covering != nil {
		s.deductForDay(ctx, employeeID, covering.LeaveType, day)
	}
	return covering != nil, true, nil
}

// deductForDay charges one day of the leave type against the year the
// day falls in. The attendance record is already committed at this
// point; a ledger failure is logged, not propagated.
func (s *service) deductForDay(ctx context.Context, employeeID uuid.UUID, leaveType string, day time.Time) {
	// LOP usage is tracked in the ledger too, it just never blocks.
	if err := s.ledger.Deduct(ctx, employeeID.String(), leaveType, day.Year(), 1); err != nil {
		s.logger.Error("balance deduction failed",
			zap.String("employee_id", employeeID.String()),
			zap.String("leave_type", leaveType),
			zap.String("date", day.Format("2006-01-02")),
			zap.Error(err),
		)
	}
}

// MarkAsLeave is the corrective path: flip an already-materialized day
// to LEAVE and charge the ledger. Returns false without error when
// there is nothing to do (no record for the day, or already LEAVE).
func (s *service) MarkAsLeave(ctx context.Context, employeeID uuid.UUID, day time.Time, lr *leave.LeaveRequest) (bool, error) {
	day = clock.DateOf(day)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if record.Status == StatusLeave {
		return false, nil
	}

	record.Status = StatusLeave
	record.LeaveRequestID = &lr.ID
	if err := qtx.Update(ctx, record); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}

	s.deductForDay(ctx, employeeID, lr.LeaveType, day)
	return true, nil
}

// CorrectForApprovedLeave reconciles days that were generated as
// PRESENT before the covering leave got approved. Future days are left
// to the generator. Returns the number of days flipped.
func (s *service) CorrectForApprovedLeave(ctx context.Context, lr *leave.LeaveRequest) (int, error) {
	today := clock.Today(s.clk)
	flipped := 0

	for day := clock.DateOf(lr.StartDate); !day.After(lr.EndDate) && !day.After(today); day = day.AddDate(0, 0, 1) {
		changed, err := s.MarkAsLeave(ctx, lr.EmployeeID, day, lr)
		if err != nil {
			return flipped, err
		}
		if changed {
			flipped++
		}
	}

	if flipped > 0 {
		s.logger.Info("attendance corrected for approved leave",
			zap.String("leave_request_id", lr.ID.String()),
			zap.String("employee_id", lr.EmployeeID.String()),
			zap.Int("days_flipped", flipped),
		)
	}
	return flipped, nil
}

func (s *service) MarkAsLeaveByID(ctx context.Context, req MarkLeaveRequest) error {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return attendanceerrors.ErrInvalidEmployeeID
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return attendanceerrors.ErrInvalidDate
	}
	leaveID, err := uuid.Parse(req.LeaveRequestID)
	if err != nil {
		return leaveerrors.ErrInvalidRequestID
	}

	lr, err := s.leaves.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	_, err = s.MarkAsLeave(ctx, employeeID, day, lr)
	return err
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]AttendanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidEmployeeID
	}
	rows, err := s.repo.FindByEmployee(ctx, employeeUUID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) GetByEmployeeAndRange(ctx context.Context, employeeID, from, to string) ([]AttendanceResponse, error) {
	employeeUUID, fromDate, toDate, err := parseRange(employeeID, from, to)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.FindByEmployeeAndRange(ctx, employeeUUID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) GetByDate(ctx context.Context, date string) ([]AttendanceResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDate
	}
	rows, err := s.repo.FindByDate(ctx, clock.DateOf(day))
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) GetSummary(ctx context.Context, employeeID, from, to string) (SummaryResponse, error) {
	employeeUUID, fromDate, toDate, err := parseRange(employeeID, from, to)
	if err != nil {
		return SummaryResponse{}, err
	}

	present, err := s.repo.CountByStatusAndRange(ctx, employeeUUID, StatusPresent, fromDate, toDate)
	if err != nil {
		return SummaryResponse{}, err
	}
	onLeave, err := s.repo.CountByStatusAndRange(ctx, employeeUUID, StatusLeave, fromDate, toDate)
	if err != nil {
		return SummaryResponse{}, err
	}

	return SummaryResponse{
		EmployeeID: employeeID,
		From:       fromDate.Format("2006-01-02"),
		To:         toDate.Format("2006-01-02"),
		Present:    present,
		OnLeave:    onLeave,
	}, nil
}

func parseRange(employeeID, from, to string) (uuid.UUID, time.Time, time.Time, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, attendanceerrors.ErrInvalidEmployeeID
	}
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, attendanceerrors.ErrInvalidDate
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, attendanceerrors.ErrInvalidDate
	}
	if fromDate.After(toDate) {
		return uuid.Nil, time.Time{}, time.Time{}, attendanceerrors.ErrInvalidDateRange
	}
	return employeeUUID, clock.DateOf(fromDate), clock.DateOf(toDate), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponses(rows []Attendance) []AttendanceResponse {
	resp := make([]AttendanceResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp
}

func mapToResponse(a Attendance) AttendanceResponse {
	r := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		Status:         a.Status,
	}
	if a.LeaveRequestID != nil {
		id := a.LeaveRequestID.String()
		r.LeaveRequestID = &id
	}
	return r
}
