package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error)
	FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	HasOverlappingApprovedLeave(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time, excludeID *uuid.UUID) (bool, error)
	FindApprovedLeavesForDate(ctx context.Context, employeeID uuid.UUID, date time.Time) ([]LeaveRequest, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

// FindByIDForUpdate takes a row lock so concurrent transitions on the
// same request serialize; the loser observes the committed status.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("applied_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Where("status = ?", status).
		Order("applied_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Order("applied_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Save(l).Error
}

// HasOverlappingApprovedLeave reports whether any other APPROVED
// request for the employee intersects [startDate, endDate].
func (r *repository) HasOverlappingApprovedLeave(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time, excludeID *uuid.UUID) (bool, error) {
	db := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate)

	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// FindApprovedLeavesForDate lists APPROVED requests covering the date,
// ordered deterministically (earliest applied, then id) so the
// attendance generator always picks the same one.
func (r *repository) FindApprovedLeavesForDate(ctx context.Context, employeeID uuid.UUID, date time.Time) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", date, date).
		Order("applied_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}
