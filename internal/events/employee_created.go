package events

import "time"

const EmployeeCreatedTopic = "hr.employee.lifecycle.v1"

type EmployeeCreatedEvent struct {
	EventType      string    `json:"event_type"`
	EmployeeID     string    `json:"employee_id"`
	EmployeeCode   string    `json:"employee_code"`
	BalancesOfYear int       `json:"balances_of_year"`
	OccurredAt     time.Time `json:"occurred_at"`
}
