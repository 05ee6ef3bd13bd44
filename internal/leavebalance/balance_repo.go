package leavebalance

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	FindByEmployeeTypeYear(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (*LeaveBalance, error)
	FindByEmployeeAndYear(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveBalance, error)
	FindForUpdate(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (*LeaveBalance, error)
	Update(ctx context.Context, b *LeaveBalance) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).Create(b).Error
}

func (r *repository) FindByEmployeeTypeYear(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindByEmployeeAndYear(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveBalance, error) {
	var rows []LeaveBalance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Order("leave_type ASC").
		Find(&rows).Error
	return rows, err
}

// FindForUpdate takes a row lock so concurrent deductions serialize on
// the (employee, type, year) balance row.
func (r *repository) FindForUpdate(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) Update(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).Save(b).Error
}
