package timelog

import "time"

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"
)

// Entry is one Zoho Projects log line. Clock columns are stored as
// "15:04:05"; LoggedHours is a duration expressed as a time of day.
type Entry struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EmployeeID  string    `gorm:"column:emp_id;type:varchar(64);not null;uniqueIndex:uq_zoho_timelog_entry,priority:1"`
	TimelogDate time.Time `gorm:"column:timelog_date;type:date;not null;uniqueIndex:uq_zoho_timelog_entry,priority:2;index"`
	Project     string    `gorm:"column:project;type:varchar(255);not null;uniqueIndex:uq_zoho_timelog_entry,priority:3"`
	Task        string    `gorm:"column:task;type:varchar(255);not null;uniqueIndex:uq_zoho_timelog_entry,priority:4"`
	StartTime   string    `gorm:"column:start_time;type:time;not null;uniqueIndex:uq_zoho_timelog_entry,priority:5"`
	EndTime     string    `gorm:"column:end_time;type:time;not null"`
	LoggedHours string    `gorm:"column:logged_hours;type:time;not null"`
	CreatedAt   time.Time `gorm:"column:created;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:modified;autoUpdateTime"`
}

func (Entry) TableName() string {
	return "zoho_timelog_entry"
}

type entryKey struct {
	employeeID string
	date       string
	project    string
	task       string
	startTime  string
}

func keyOf(e Entry) entryKey {
	return entryKey{
		employeeID: e.EmployeeID,
		date:       e.TimelogDate.Format(dateLayout),
		project:    e.Project,
		task:       e.Task,
		startTime:  normalizeStoredClock(e.StartTime),
	}
}

// Postgres may hand a time column back with fractional seconds or a
// trailing zone; only HH:MM:SS takes part in the key.
func normalizeStoredClock(v string) string {
	if len(v) > len(clockLayout) {
		return v[:len(clockLayout)]
	}
	return v
}
