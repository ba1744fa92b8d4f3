package models

// EmployeeReport aggregates one employee's pipeline for the manager report view
// and the PDF export.
type EmployeeReport struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	Pending        int     `json:"pending"`
	InProgress     int     `json:"in_progress"`
	Completed      int     `json:"completed"`
	Total          int     `json:"total"`
	CompletionRate float64 `json:"completion_rate"` // completed / total, 0 when total is 0

	RecentEntries []*Entry `json:"recent_entries"`
}
