package mapping

import (
	"github.com/SscSPs/accounting_core/internal/core/domain"
	"github.com/SscSPs/accounting_core/internal/models"
)

// UserModel is the model name the users table is registered under in the
// field interceptor configuration.
const UserModel = "User"

// Protected columns of the users table.
const (
	UserFieldEmail   = "email"
	UserFieldPhone   = "phone"
	UserFieldAddress = "address"
	UserFieldNotes   = "notes"
)

// UserProtectedFields lists the users columns stored encrypted.
var UserProtectedFields = []string{UserFieldEmail, UserFieldPhone, UserFieldAddress, UserFieldNotes}

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:      d.UserID,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		Notes:       d.Notes,
		AuditFields: ToModelAuditFields(d.AuditFields),
		DeletedAt:   d.DeletedAt,
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:      m.UserID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Address:     m.Address,
		Notes:       m.Notes,
		AuditFields: ToDomainAuditFields(m.AuditFields),
		DeletedAt:   m.DeletedAt,
	}
}

// UserProtectedValues extracts the protected columns of m. Absent optional
// values are nil, never empty strings.
func UserProtectedValues(m models.User) map[string]any {
	return map[string]any{
		UserFieldEmail:   m.Email,
		UserFieldPhone:   optional(m.Phone),
		UserFieldAddress: optional(m.Address),
		UserFieldNotes:   optional(m.Notes),
	}
}

// ApplyUserProtectedValues writes values produced by UserProtectedValues (after
// encryption or decryption) back onto m.
func ApplyUserProtectedValues(m *models.User, values map[string]any) {
	if v, ok := values[UserFieldEmail].(string); ok {
		m.Email = v
	}
	m.Phone = stringPtr(values[UserFieldPhone])
	m.Address = stringPtr(values[UserFieldAddress])
	m.Notes = stringPtr(values[UserFieldNotes])
}

func optional(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
