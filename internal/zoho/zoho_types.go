package zoho

import (
	"fmt"
	"strconv"
	"strings"
)

type TimelogDay struct {
	Date       string          `json:"date"`
	LogDetails []TimelogDetail `json:"log_details"`
}

type TimelogDetail struct {
	AddedBy      User   `json:"added_by"`
	Project      Named  `json:"project"`
	ModuleDetail Named  `json:"module_detail"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	LogHour      string `json:"log_hour"`
}

type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Named struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type timelogResponse struct {
	TimeLogs []TimelogDay `json:"time_logs"`
}

type LeaveRecord struct {
	Employee       string              `json:"Employee"`
	EmployeeID     string              `json:"Employee_ID"`
	ApprovalStatus string              `json:"ApprovalStatus"`
	LeaveType      string              `json:"Leavetype"`
	Reason         string              `json:"Reason"`
	Days           map[string]LeaveDay `json:"Days"`
}

func (r LeaveRecord) Approved() bool {
	return strings.EqualFold(strings.TrimSpace(r.ApprovalStatus), "Approved")
}

type LeaveDay struct {
	LeaveCount Number `json:"LeaveCount"`
	Session    Number `json:"Session"`
}

type leaveResponse struct {
	Records map[string]LeaveRecord `json:"records"`
}

// Number accepts both JSON numbers and numeric strings; Zoho People is not
// consistent between the two.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("zoho number %q: %w", s, err)
	}
	*n = Number(f)
	return nil
}
