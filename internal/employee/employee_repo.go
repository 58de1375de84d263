package employee

import (
	"context"
	"database/sql"
	"strings"

	"hr-ops/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByIDs(ctx context.Context, ids []string) ([]Employee, error)
	FindByEmails(ctx context.Context, emails []string) ([]Employee, error)
	FindAll(ctx context.Context) ([]Employee, error)
	CreateBatch(ctx context.Context, employees []Employee) ([]string, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var employees []Employee
	err := connection.Scoped(ctx, r.db, r.tx).
		Where("id IN ?", ids).
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByEmails(ctx context.Context, emails []string) ([]Employee, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	lowered := make([]string, len(emails))
	for i, e := range emails {
		lowered[i] = strings.ToLower(strings.TrimSpace(e))
	}
	var employees []Employee
	err := connection.Scoped(ctx, r.db, r.tx).
		Where("LOWER(email) IN ?", lowered).
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := connection.Scoped(ctx, r.db, r.tx).
		Order("id").
		Find(&employees).Error
	return employees, err
}

// CreateBatch inserts all employees in one statement and returns the ids it
// actually wrote. Rows whose id already exists are left untouched, so a
// concurrent import cannot rename them.
func (r *repository) CreateBatch(ctx context.Context, employees []Employee) ([]string, error) {
	if len(employees) == 0 {
		return nil, nil
	}
	values := make([]string, 0, len(employees))
	args := make([]any, 0, len(employees)*2)
	for _, e := range employees {
		values = append(values, "(?, ?, NOW(), NOW())")
		args = append(args, e.ID, e.Name)
	}
	query := "INSERT INTO " + Employee{}.TableName() + " (id, name, created, modified) VALUES " +
		strings.Join(values, ", ") +
		" ON CONFLICT (id) DO NOTHING RETURNING id"

	var created []string
	err := connection.Scoped(ctx, r.db, r.tx).
		Raw(query, args...).
		Scan(&created).Error
	return created, err
}
