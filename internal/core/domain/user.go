package domain

import "time"

// User represents a user of the application in the domain.
// Email, Phone, Address and Notes are stored encrypted; the domain always sees plaintext.
type User struct {
	UserID  string  `json:"userID"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Notes   *string `json:"notes,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
