package events

import "time"

const LeaveDecidedTopic = "hr.leave.decisions.v1"

const (
	LeaveApprovedEventType = "leave.approved"
	LeaveRejectedEventType = "leave.rejected"
)

// LeaveDecidedEvent is emitted through the transactional outbox when an
// admin approves or rejects a leave request. Consumers use approved
// events to correct attendance records that were generated before the
// decision landed.
type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	TotalDays  int       `json:"total_days"`
	ReviewedBy string    `json:"reviewed_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
