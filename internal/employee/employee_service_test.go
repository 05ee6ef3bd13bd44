package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/employee"
	employeeerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/employee/errors"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/events"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leavebalance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

type fakeEmployeeRepository struct {
	createFn   func(ctx context.Context, e *employee.Employee) error
	findByIDFn func(ctx context.Context, id uuid.UUID) (*employee.Employee, error)
	findAllFn  func(ctx context.Context) ([]employee.Employee, error)
	updateFn   func(ctx context.Context, e *employee.Employee) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindActive(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

type fakeBalanceRepository struct {
	createFn func(ctx context.Context, b *leavebalance.LeaveBalance) error
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) leavebalance.Repository {
	return f
}

func (f *fakeBalanceRepository) Create(ctx context.Context, b *leavebalance.LeaveBalance) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) FindByEmployeeTypeYear(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (*leavebalance.LeaveBalance, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) FindByEmployeeAndYear(ctx context.Context, employeeID uuid.UUID, year int) ([]leavebalance.LeaveBalance, error) {
	return nil, nil
}

func (f *fakeBalanceRepository) FindForUpdate(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (*leavebalance.LeaveBalance, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) Update(ctx context.Context, b *leavebalance.LeaveBalance) error {
	return nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type employeeServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  employee.Service
	repo     *fakeEmployeeRepository
	balances *fakeBalanceRepository
	outbox   *fakeOutboxRepository
}

var testNow = time.Date(2026, 6, 15, 9, 30, 0, 0, time.UTC)

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeEmployeeRepository{}
	balances := &fakeBalanceRepository{}
	outbox := &fakeOutboxRepository{}
	svc := employee.NewService(db, repo, balances, outbox, fixedClock{now: testNow})

	return &employeeServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		balances: balances,
		outbox:   outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func validCreateRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-0042",
		FullName:     "Meera Pillai",
		Email:        "meera.pillai@keralaspice.example",
		JoinDate:     "2026-06-01",
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success seeds balances and outbox event in one transaction", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *employee.Employee
		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			created = e
			return nil
		}

		var seeded []leavebalance.LeaveBalance
		deps.balances.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			seeded = append(seeded, *b)
			return nil
		}

		var event kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, e kafka.OutboxEvent) error {
			event = e
			return nil
		}

		resp, err := deps.service.Create(ctx, validCreateRequest())

		assert.NoError(t, err)
		assert.Equal(t, "EMP-0042", resp.EmployeeCode)
		assert.Equal(t, employee.StatusActive, resp.Status)
		assert.Equal(t, "2026-06-01", resp.JoinDate)

		assert.Len(t, seeded, 3)
		byType := map[string]leavebalance.LeaveBalance{}
		for _, b := range seeded {
			assert.Equal(t, created.ID, b.EmployeeID)
			assert.Equal(t, 2026, b.Year)
			byType[b.LeaveType] = b
		}
		assert.Equal(t, leavebalance.DefaultCasualDays, byType[leavebalance.TypeCasual].Remaining)
		assert.Equal(t, leavebalance.DefaultSickDays, byType[leavebalance.TypeSick].Remaining)
		assert.Contains(t, byType, leavebalance.TypeLossOfPay)

		assert.Equal(t, "employee.created", event.EventType)
		assert.Equal(t, events.EmployeeCreatedTopic, event.Topic)
		assert.Equal(t, created.ID.String(), event.AggregateID)
		assert.Equal(t, kafka.OutboxStatusPending, event.Status)

		var payload events.EmployeeCreatedEvent
		assert.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, "EMP-0042", payload.EmployeeCode)
		assert.Equal(t, 2026, payload.BalancesOfYear)

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate employee code", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_code"}
		}

		_, err := deps.service.Create(ctx, validCreateRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeCodeAlreadyExists)
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_email"}
		}

		_, err := deps.service.Create(ctx, validCreateRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrEmailAlreadyExists)
	})

	t.Run("negative invalid join date", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()
		req.JoinDate = "01-06-2026"
		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			t.Fatal("create must not run with an invalid join date")
			return nil
		}

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidJoinDate)
	})

	t.Run("negative balance seed failure rolls back", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.balances.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			return errors.New("db error")
		}

		_, err := deps.service.Create(ctx, validCreateRequest())

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, eid uuid.UUID) (*employee.Employee, error) {
			return &employee.Employee{
				ID:           eid,
				EmployeeCode: "EMP-0042",
				FullName:     "Meera Pillai",
				Email:        "meera.pillai@keralaspice.example",
				Status:       employee.StatusActive,
				JoinDate:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
		assert.Equal(t, "2026-06-01", resp.JoinDate)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestEmployeeService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, eid uuid.UUID) (*employee.Employee, error) {
			return &employee.Employee{ID: eid, Status: employee.StatusActive}, nil
		}

		var saved *employee.Employee
		deps.repo.updateFn = func(ctx context.Context, e *employee.Employee) error {
			saved = e
			return nil
		}

		resp, err := deps.service.Deactivate(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, employee.StatusInactive, resp.Status)
		assert.Equal(t, employee.StatusInactive, saved.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already inactive", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, eid uuid.UUID) (*employee.Employee, error) {
			return &employee.Employee{ID: eid, Status: employee.StatusInactive}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, e *employee.Employee) error {
			t.Fatal("inactive employee must not be updated")
			return nil
		}

		_, err := deps.service.Deactivate(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeInactive)
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Deactivate(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}
