package events

import "time"

const (
	AttendanceImportedTopic = "hr.attendance.imported.v1"
	AttendanceImportedType  = "attendance.imported"
)

// AttendanceImportedEvent is emitted once per committed import. From and To
// are the inclusive date span of the file, formatted YYYY-MM-DD.
type AttendanceImportedEvent struct {
	EventType  string    `json:"event_type"`
	ImportID   string    `json:"import_id"`
	RequestID  string    `json:"request_id,omitempty"`
	Source     string    `json:"source"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	OccurredAt time.Time `json:"occurred_at"`
}
