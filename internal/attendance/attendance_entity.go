package attendance

import (
	"time"
)

const dateLayout = "2006-01-02"

// DailyAttendance holds one employee's first-in/last-out for a calendar day.
// Clock columns are nil when the source cell could not be parsed.
type DailyAttendance struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EmployeeID     string    `gorm:"column:emp_id;type:varchar(64);not null;uniqueIndex:uq_daily_attendance_emp_date,priority:1"`
	AttendanceDate time.Time `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_daily_attendance_emp_date,priority:2;index"`
	InTime         *string   `gorm:"column:in_time;type:time"`
	OutTime        *string   `gorm:"column:out_time;type:time"`
	Duration       *string   `gorm:"column:duration;type:time"`
	CreatedAt      time.Time `gorm:"column:created;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:modified;autoUpdateTime"`
}

func (DailyAttendance) TableName() string {
	return "daily_attendance"
}

type recordKey struct {
	employeeID string
	date       string
}

func keyOf(employeeID string, date time.Time) recordKey {
	return recordKey{employeeID: employeeID, date: date.Format(dateLayout)}
}
