package mapping

import (
	"github.com/SscSPs/accounting_core/internal/core/domain"
	"github.com/SscSPs/accounting_core/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		Code:         m.Code,
		Name:         m.Name,
		AccountType:  domain.AccountType(m.AccountType),
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
