package attendance

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	Status         string  `json:"status"`
	LeaveRequestID *string `json:"leave_request_id,omitempty"`
}

// GenerationReport summarizes one generator run. Failed counts
// employees whose day could not be materialized; the run itself still
// succeeds.
type GenerationReport struct {
	Date      string `json:"date"`
	Processed int    `json:"processed"`
	Present   int    `json:"present"`
	OnLeave   int    `json:"on_leave"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

type MarkLeaveRequest struct {
	EmployeeID     string `json:"employee_id" binding:"required,uuid"`
	Date           string `json:"date" binding:"required"`
	LeaveRequestID string `json:"leave_request_id" binding:"required,uuid"`
}

type SummaryResponse struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	Present    int64  `json:"present"`
	OnLeave    int64  `json:"on_leave"`
}
