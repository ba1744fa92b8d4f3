package models

import "time"

// CompletedClient is the append-only archive record written when an entry
// reaches 'completed'. Exactly one row exists per original entry id.
type CompletedClient struct {
	ID              int       `json:"id"`
	OriginalEntryID int       `json:"original_entry_id"`
	SerialNumber    int       `json:"serial_number"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	MobileNumber    string    `json:"mobile_number"`
	Address         string    `json:"address"`
	Purpose         string    `json:"purpose"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    string    `json:"employee_name"` // Resolved at archive time, not kept in sync
	Date            time.Time `json:"date"`
	CompletionDate  time.Time `json:"completion_date"`
	Notes           string    `json:"notes"`
	ImageURL        string    `json:"image_url"`
}

// ArchiveRequest represents the request body for POST /api/completed-clients.
type ArchiveRequest struct {
	OriginalEntryID int    `json:"originalEntryId"`
	SerialNumber    int    `json:"serialNumber"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	MobileNumber    string `json:"mobileNumber"`
	Address         string `json:"address"`
	Purpose         string `json:"purpose"`
	EmployeeID      string `json:"employeeId"`
	EmployeeName    string `json:"employeeName"`
	Date            string `json:"date"`
	Notes           string `json:"notes"`
	ImageURL        string `json:"imageUrl"`
}
