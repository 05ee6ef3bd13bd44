package leavebalance

type BalanceResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	Year       int    `json:"year"`
	Total      int    `json:"total"`
	Used       int    `json:"used"`
	Remaining  int    `json:"remaining"`
}
