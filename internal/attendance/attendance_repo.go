package attendance

import (
	"context"
	"database/sql"
	"time"

	"hr-ops/internal/shared/connection"

	"gorm.io/gorm"
)

const insertBatchSize = 500

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindInDateRange(ctx context.Context, from, to time.Time) ([]DailyAttendance, error)
	CreateBatch(ctx context.Context, rows []DailyAttendance) error
	Update(ctx context.Context, row *DailyAttendance) error
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

// FindInDateRange returns every record whose date lies in [from, to].
func (r *repository) FindInDateRange(ctx context.Context, from, to time.Time) ([]DailyAttendance, error) {
	var rows []DailyAttendance
	err := connection.Scoped(ctx, r.db, r.tx).
		Where("attendance_date BETWEEN ? AND ?", from.Format(dateLayout), to.Format(dateLayout)).
		Order("attendance_date, emp_id").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateBatch(ctx context.Context, rows []DailyAttendance) error {
	if len(rows) == 0 {
		return nil
	}
	return connection.Scoped(ctx, r.db, r.tx).
		CreateInBatches(&rows, insertBatchSize).Error
}

// Update overwrites the clock columns only; the key columns never change.
func (r *repository) Update(ctx context.Context, row *DailyAttendance) error {
	return connection.Scoped(ctx, r.db, r.tx).
		Model(&DailyAttendance{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"in_time":  row.InTime,
			"out_time": row.OutTime,
			"duration": row.Duration,
			"modified": time.Now().UTC(),
		}).Error
}
