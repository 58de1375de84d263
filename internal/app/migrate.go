package app

import (
	"fmt"

	"hr-ops/internal/attendance"
	"hr-ops/internal/employee"
	"hr-ops/internal/leave"
	"hr-ops/internal/timelog"

	"gorm.io/gorm"
)

// The outbox and counter tables are written with raw SQL, so they are not
// gorm models.
var rawSchema = []string{
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		request_id VARCHAR(64),
		aggregate_type VARCHAR(64) NOT NULL,
		aggregate_id VARCHAR(64) NOT NULL,
		event_type VARCHAR(128) NOT NULL,
		topic VARCHAR(255) NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		retry_count INT NOT NULL DEFAULT 0,
		next_retry_at TIMESTAMPTZ,
		processed_at TIMESTAMPTZ,
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created ON outbox_events (status, created_at)`,
	`CREATE TABLE IF NOT EXISTS counters (
		counter_type VARCHAR(64) PRIMARY KEY,
		last_value BIGINT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&employee.Employee{},
		&attendance.DailyAttendance{},
		&timelog.Entry{},
		&leave.EmployeeLeave{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range rawSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
