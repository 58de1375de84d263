package leave

import (
	"context"
	"database/sql"
	"time"

	"hr-ops/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindInDateRange(ctx context.Context, from, to time.Time) ([]EmployeeLeave, error)
	CreateBatch(ctx context.Context, leaves []EmployeeLeave) error
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

func (r *repository) FindInDateRange(ctx context.Context, from, to time.Time) ([]EmployeeLeave, error) {
	var leaves []EmployeeLeave
	err := connection.Scoped(ctx, r.db, r.tx).
		Select("id", "emp_id", "leave_date", "leave_type").
		Where("leave_date BETWEEN ? AND ?", from.Format(dateLayout), to.Format(dateLayout)).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) CreateBatch(ctx context.Context, leaves []EmployeeLeave) error {
	if len(leaves) == 0 {
		return nil
	}
	return connection.Scoped(ctx, r.db, r.tx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&leaves, insertBatchSize).Error
}
