package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Scoped returns db bound to ctx. When tx is non-nil every statement issued
// through the returned handle runs on that transaction, so repositories that
// were handed a *sql.Tx by their service commit or roll back with it.
func Scoped(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	g := db.WithContext(ctx)
	if tx != nil {
		g.Statement.ConnPool = tx
	}
	return g
}
