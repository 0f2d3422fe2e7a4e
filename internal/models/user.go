package models

import "time"

// User is a row of the users table. Email, Phone, Address and Notes hold
// encrypted tokens once written; values read straight from the table must go
// through the field interceptor before they reach the domain.
type User struct {
	UserID  string  `db:"user_id"`
	Name    string  `db:"name"`
	Email   string  `db:"email"`
	Phone   *string `db:"phone"`
	Address *string `db:"address"`
	Notes   *string `db:"notes"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
