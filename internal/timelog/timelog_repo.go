package timelog

import (
	"context"
	"database/sql"
	"time"

	"hr-ops/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

//go:generate mockgen -source=timelog_repo.go -destination=mock/timelog_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindInDateRange(ctx context.Context, from, to time.Time) ([]Entry, error)
	CreateBatch(ctx context.Context, entries []Entry) error
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

func (r *repository) FindInDateRange(ctx context.Context, from, to time.Time) ([]Entry, error) {
	var entries []Entry
	err := connection.Scoped(ctx, r.db, r.tx).
		Where("timelog_date BETWEEN ? AND ?", from.Format(dateLayout), to.Format(dateLayout)).
		Find(&entries).Error
	return entries, err
}

// CreateBatch ignores rows that collide on the natural key; a concurrent sync
// may have stored them after FindInDateRange ran.
func (r *repository) CreateBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return connection.Scoped(ctx, r.db, r.tx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&entries, insertBatchSize).Error
}
