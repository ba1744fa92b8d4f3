package models

import "time"

// Entry lifecycle statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

type Entry struct {
	ID           int       `json:"id"`
	SerialNumber int       `json:"serial_number"` // Assigned server-side, unique per employee
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobile_number"`
	Address      string    `json:"address"`
	Purpose      string    `json:"purpose"`
	EmployeeID   string    `json:"employee_id"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status"` // 'pending', 'in-progress', 'completed'
	Notes        string    `json:"notes"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EntryWithEmployee is an entry joined with the resolved employee display name,
// used by the cross-employee read models.
type EntryWithEmployee struct {
	Entry
	EmployeeName string `json:"employee_name"`
}

// CreateEntryRequest represents the request body for creating a performance entry
type CreateEntryRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
	Address      string `json:"address"`
	Purpose      string `json:"purpose"`
	Date         string `json:"date"` // YYYY-MM-DD, defaults to today
	Status       string `json:"status"`
	Notes        string `json:"notes"`
	ImageURL     string `json:"imageUrl"`
}

// UpdateEntryRequest represents the request body for updating a performance entry
type UpdateEntryRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
	Address      string `json:"address"`
	Purpose      string `json:"purpose"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
	ImageURL     string `json:"imageUrl"`
}
