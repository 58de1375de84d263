package leave

import (
	"time"
)

const dateLayout = "2006-01-02"

const (
	TypeFullDay    = "full_day"
	TypeFirstHalf  = "first_half"
	TypeSecondHalf = "second_half"
)

const defaultReason = "No Reason Provided"

// EmployeeLeave is one approved leave day. A half day is stored with the
// session it covers; ZohoLeaveType keeps the category name Zoho uses.
type EmployeeLeave struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EmployeeID    string    `gorm:"column:emp_id;type:varchar(64);not null;uniqueIndex:uq_employee_leave_emp_date_type,priority:1"`
	LeaveDate     time.Time `gorm:"column:leave_date;type:date;not null;uniqueIndex:uq_employee_leave_emp_date_type,priority:2;index"`
	LeaveType     string    `gorm:"column:leave_type;type:varchar(20);not null;uniqueIndex:uq_employee_leave_emp_date_type,priority:3"`
	ZohoLeaveType string    `gorm:"column:zoho_leave_type;type:varchar(100)"`
	Reason        string    `gorm:"column:reason;type:text"`
	CreatedAt     time.Time `gorm:"column:created;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:modified;autoUpdateTime"`
}

func (EmployeeLeave) TableName() string {
	return "employee_leave"
}

type leaveKey struct {
	employeeID string
	date       string
	leaveType  string
}

func keyOf(l EmployeeLeave) leaveKey {
	return leaveKey{employeeID: l.EmployeeID, date: l.LeaveDate.Format(dateLayout), leaveType: l.LeaveType}
}
