package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*Attendance, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Attendance, error)
	FindByEmployeeAndRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Attendance, error)
	FindByDate(ctx context.Context, date time.Time) ([]Attendance, error)
	CountByStatusAndRange(ctx context.Context, employeeID uuid.UUID, status string, from, to time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.conn(ctx).
		First(&a, "employee_id = ? AND attendance_date = ?", employeeID, date).Error
	return &a, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Attendance, error) {
	var rows []Attendance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("attendance_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", from, to).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.conn(ctx).
		Where("attendance_date = ?", date).
		Order("employee_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByStatusAndRange(ctx context.Context, employeeID uuid.UUID, status string, from, to time.Time) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Attendance{}).
		Where("employee_id = ?", employeeID).
		Where("status = ?", status).
		Where("attendance_date BETWEEN ? AND ?", from, to).
		Count(&count).Error
	return count, err
}
