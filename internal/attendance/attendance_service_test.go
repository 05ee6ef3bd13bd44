package attendance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/attendance"
	attendanceerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/attendance/errors"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/employee"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leavebalance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

type fakeAttendanceRepository struct {
	createFn                func(ctx context.Context, a *attendance.Attendance) error
	updateFn                func(ctx context.Context, a *attendance.Attendance) error
	findByEmployeeAndDateFn func(ctx context.Context, employeeID uuid.UUID, date time.Time) (*attendance.Attendance, error)
	findByEmployeeFn        func(ctx context.Context, employeeID uuid.UUID) ([]attendance.Attendance, error)
	findByDateFn            func(ctx context.Context, date time.Time) ([]attendance.Attendance, error)
}

func (f *fakeAttendanceRepository) WithTx(tx *sql.Tx) attendance.Repository {
	return f
}

func (f *fakeAttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAttendanceRepository) Update(ctx context.Context, a *attendance.Attendance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

func (f *fakeAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*attendance.Attendance, error) {
	if f.findByEmployeeAndDateFn != nil {
		return f.findByEmployeeAndDateFn(ctx, employeeID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]attendance.Attendance, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) FindByEmployeeAndRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepository) FindByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	if f.findByDateFn != nil {
		return f.findByDateFn(ctx, date)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) CountByStatusAndRange(ctx context.Context, employeeID uuid.UUID, status string, from, to time.Time) (int64, error) {
	return 0, nil
}

type fakeEmployeeRepository struct {
	findActiveFn func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	return nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindActive(ctx context.Context) ([]employee.Employee, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	return nil
}

type fakeLeaveRepository struct {
	findByIDFn     func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error)
	findApprovedFn func(ctx context.Context, employeeID uuid.UUID, date time.Time) ([]leave.LeaveRequest, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) FindByStatus(ctx context.Context, status string) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	return nil
}

func (f *fakeLeaveRepository) HasOverlappingApprovedLeave(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time, excludeID *uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeLeaveRepository) FindApprovedLeavesForDate(ctx context.Context, employeeID uuid.UUID, date time.Time) ([]leave.LeaveRequest, error) {
	if f.findApprovedFn != nil {
		return f.findApprovedFn(ctx, employeeID, date)
	}
	return nil, nil
}

type deductCall struct {
	employeeID string
	leaveType  string
	year       int
	days       int
}

type fakeLedger struct {
	deducts  []deductCall
	deductFn func(ctx context.Context, employeeID, leaveType string, year, days int) error
}

func (f *fakeLedger) GetBalance(ctx context.Context, employeeID, leaveType string, year int) (leavebalance.BalanceResponse, error) {
	return leavebalance.BalanceResponse{}, nil
}

func (f *fakeLedger) GetBalances(ctx context.Context, employeeID string, year int) ([]leavebalance.BalanceResponse, error) {
	return nil, nil
}

func (f *fakeLedger) Deduct(ctx context.Context, employeeID, leaveType string, year, days int) error {
	f.deducts = append(f.deducts, deductCall{employeeID: employeeID, leaveType: leaveType, year: year, days: days})
	if f.deductFn != nil {
		return f.deductFn(ctx, employeeID, leaveType, year, days)
	}
	return nil
}

func (f *fakeLedger) Restore(ctx context.Context, employeeID, leaveType string, year, days int) error {
	return nil
}

type generatorDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   attendance.Service
	repo      *fakeAttendanceRepository
	employees *fakeEmployeeRepository
	leaves    *fakeLeaveRepository
	ledger    *fakeLedger
}

var testDay = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func setupGeneratorTest(t *testing.T) *generatorDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAttendanceRepository{}
	employees := &fakeEmployeeRepository{}
	leaves := &fakeLeaveRepository{}
	ledger := &fakeLedger{}
	svc := attendance.NewService(db, repo, employees, leaves, ledger, fixedClock{now: testDay.Add(6 * time.Hour)})

	return &generatorDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		employees: employees,
		leaves:    leaves,
		ledger:    ledger,
	}
}

func activeEmployee(id uuid.UUID) employee.Employee {
	return employee.Employee{ID: id, Status: employee.StatusActive}
}

func approvedLeave(id, employeeID uuid.UUID, leaveType string) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:         id,
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		StartDate:  testDay.AddDate(0, 0, -1),
		EndDate:    testDay.AddDate(0, 0, 1),
		TotalDays:  3,
		Status:     leave.StatusApproved,
	}
}

func TestAttendanceService_GenerateForDate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates present records for the roster", func(t *testing.T) {
		deps := setupGeneratorTest(t)
		defer deps.db.Close()

		empA := uuid.New()
		empB := uuid.New()
		deps.employees.findActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{activeEmployee(empA), activeEmployee(empB)}, nil
		}

		var created []attendance.Attendance
		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			created = append(created, *a)
			return nil
		}

		report, err := deps.service.GenerateForDate(ctx, testDay)

		assert.NoError(t, err)
		assert.Equal(t, 2, report.Processed)
		assert.Equal(t, 2, report.Present)
		assert.Equal(t, 0, report.OnLeave)
		assert.Equal(t, 0, report.Failed)
		assert.Len(t, created, 2)
		for _, a := range created {
			assert.Equal(t, attendance.StatusPresent, a.Status)
			assert.Nil(t, a.LeaveRequestID)
			assert.True(t, a.AttendanceDate.Equal(testDay))
		}
		assert.Empty(t, deps.ledger.deducts)
	})

	t.Run("marks covered day as leave and deducts one day", func(t *testing.T) {
		deps := setupGeneratorTest(t)
		defer deps.db.Close()

		empID := uuid.New()
		leaveID := uuid.New()
		deps.employees.findActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{activeEmployee(empID)}, nil
		}
		deps.leaves.findApprovedFn = func(ctx context.Context, eid uuid.UUID, date time.Time) ([]leave.LeaveRequest, error) {
			return []leave.LeaveRequest{approvedLeave(leaveID, empID, "SL")}, nil
		}

		var created *attendance.Attendance
		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			created = a
			return nil
		}

		report, err := deps.service.GenerateForDate(ctx, testDay)

		assert.NoError(t, err)
		assert.Equal(t, 1, report.OnLeave)
		assert.Equal(t, attendance.StatusLeave, created.Status)
		assert.NotNil(t, created.LeaveRequestID)
		assert.Equal(t, leaveID, *created.LeaveRequestID)

		assert.Len(t, deps.ledger.deducts, 1)
		assert.Equal(t, deductCall{employeeID: empID.String(), leaveType: "SL", year: 2026, days: 1}, deps.ledger.deducts[0])
	})

	t.Run("picks the earliest applied leave when several cover the day", func(t *testing.T) {
		deps := setupGeneratorTest(t)
		defer deps.db.Close()

		empID := uuid.New()
		first := approvedLeave(uuid.New(), empID, "CL")
		second := approvedLeave(uuid.New(), empID, "SL")
		deps.employees.findActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{activeEmployee(empID)}, nil
		}
		deps.leaves.findApprovedFn = func(ctx context.Context, eid uuid.UUID, date time.Time) ([]leave.LeaveRequest, error) {
			return []leave.LeaveRequest{first, second}, nil
		}

		var created *attendance.Attendance
		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			created = a
			return nil
		}

		_, err := deps.service.GenerateForDate(ctx, testDay)

		assert.NoError(t, err)
		assert.Equal(t, first.ID, *created.LeaveRequestID)
		assert.Equal(t, "CL", deps.ledger.deducts[0].leaveType)
	})

	t.Run("second run skips existing records", func(t *testing.T) {
		deps := setupGeneratorTest(t)
		defer deps.db.Close()

		empID := uuid.New()
		deps.employees.findActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{activeEmployee(empID)}, nil
		}
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid uuid.UUID, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{EmployeeID: eid, AttendanceDate: date, Status: attendance.StatusPresent}, nil
		}
		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			t.Fatal("existing day must not be recreated")
			return nil
		}

		report, err := deps.service.GenerateForDate(ctx, testDay)

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)
		assert.Equal(t, 0, report.Present)
		assert.Empty(t, deps.ledger.deducts)
	})

	t.Run("continues after a per-employee failure", func(t *testing.T) {
		deps := setupGeneratorTest(t)
		defer deps.db.Close()

		empA := uuid.New()
		empB := uuid.New()
		deps.employees.findActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{activeEmployee(empA), activeEmployee(empB)}, nil
		}
		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			if a.EmployeeID == empA {
				return errors.New("db error")
			}
			return nil
		}

		report, err := deps.service.GenerateForDate(ctx, testDay)

		assert.NoError(t, err)
		assert.Equal(t, 2, report.Processed)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, 1, report.Present)
	})

	t.Run("negative directory unavailable", func(t *testing.T) {
		deps := setupGeneratorTest(t)
		defer deps.db.Close()

		deps.employees.findActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
			return nil, errors.New("connection refused")
		}

		_, err := deps.service.GenerateForDate(ctx, testDay)

		assert.ErrorIs(t, err, attendanceerrors.ErrDirectoryUnavailable)
	})
}

func TestAttendanceService_MarkAsLeave(t *testing.T) {
	ctx := context.Background()
	empID := uuid.New()
	leaveID := uuid.New()

	expectTx := func(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
		t.Helper()
		mock.ExpectBegin()
		if commit {
			mock.ExpectCommit()
		} else {
			mock.ExpectRollback()
		}
	}

	t.Run("flips present day and deducts", func(t *testing.T) {
		deps := setupGeneratorTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid uuid.UUID, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{EmployeeID: eid, AttendanceDate: date, Status: attendance.StatusPresent}, nil
		}

		var saved *attendance.Attendance
		deps.repo.updateFn = func(ctx context.Context, a *attendance.Attendance) error {
			saved = a
			return nil
		}

		lr := approvedLeave(leaveID, empID, "CL")
		changed, err := deps.service.MarkAsLeave(ctx, empID, testDay, &lr)

		assert.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, attendance.StatusLeave, saved.Status)
		assert.Equal(t, leaveID, *saved.LeaveRequestID)
		assert.Len(t, deps.ledger.deducts, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("no record is a no-op", func(t *testing.T) {
		deps := setupGeneratorTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		lr := approvedLeave(leaveID, empID, "CL")
		changed, err := deps.service.MarkAsLeave(ctx, empID, testDay, &lr)

		assert.NoError(t, err)
		assert.False(t, changed)
		assert.Empty(t, deps.ledger.deducts)
	})

	t.Run("already leave is a no-op", func(t *testing.T) {
		deps := setupGeneratorTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid uuid.UUID, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{EmployeeID: eid, AttendanceDate: date, Status: attendance.StatusLeave}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, a *attendance.Attendance) error {
			t.Fatal("leave day must not be rewritten")
			return nil
		}

		lr := approvedLeave(leaveID, empID, "CL")
		changed, err := deps.service.MarkAsLeave(ctx, empID, testDay, &lr)

		assert.NoError(t, err)
		assert.False(t, changed)
		assert.Empty(t, deps.ledger.deducts)
	})
}

func TestAttendanceService_CorrectForApprovedLeave(t *testing.T) {
	ctx := context.Background()
	empID := uuid.New()
	leaveID := uuid.New()

	t.Run("flips generated present days up to today", func(t *testing.T) {
		deps := setupGeneratorTest(t)
		defer deps.db.Close()

		// Three-day leave: two days already generated PRESENT, the third
		// is tomorrow and stays with the generator.
		lr := leave.LeaveRequest{
			ID:         leaveID,
			EmployeeID: empID,
			LeaveType:  "CL",
			StartDate:  testDay.AddDate(0, 0, -1),
			EndDate:    testDay.AddDate(0, 0, 1),
			TotalDays:  3,
			Status:     leave.StatusApproved,
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid uuid.UUID, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{EmployeeID: eid, AttendanceDate: date, Status: attendance.StatusPresent}, nil
		}

		var flippedDates []string
		deps.repo.updateFn = func(ctx context.Context, a *attendance.Attendance) error {
			flippedDates = append(flippedDates, a.AttendanceDate.Format("2006-01-02"))
			return nil
		}

		flipped, err := deps.service.CorrectForApprovedLeave(ctx, &lr)

		assert.NoError(t, err)
		assert.Equal(t, 2, flipped)
		assert.Equal(t, []string{"2026-06-14", "2026-06-15"}, flippedDates)
		assert.Len(t, deps.ledger.deducts, 2)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("nothing to do when days are already leave", func(t *testing.T) {
		deps := setupGeneratorTest(t)
		defer deps.db.Close()

		lr := leave.LeaveRequest{
			ID:         leaveID,
			EmployeeID: empID,
			LeaveType:  "CL",
			StartDate:  testDay,
			EndDate:    testDay,
			TotalDays:  1,
			Status:     leave.StatusApproved,
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid uuid.UUID, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{EmployeeID: eid, AttendanceDate: date, Status: attendance.StatusLeave}, nil
		}

		flipped, err := deps.service.CorrectForApprovedLeave(ctx, &lr)

		assert.NoError(t, err)
		assert.Equal(t, 0, flipped)
		assert.Empty(t, deps.ledger.deducts)
	})
}
