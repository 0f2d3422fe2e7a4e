package domain

import "time"

// AuditAction names an audited journal operation.
type AuditAction string

const (
	AuditCreate  AuditAction = "CREATE"
	AuditUpdate  AuditAction = "UPDATE"
	AuditPost    AuditAction = "POST"
	AuditDelete  AuditAction = "DELETE"
	AuditReverse AuditAction = "REVERSE"
)

// AuditEntityJournalEntry is the entity type recorded for journal audit rows.
const AuditEntityJournalEntry = "journal_entry"

// AuditLog is one append-only audit record.
type AuditLog struct {
	AuditID    string         `json:"auditID"`
	Action     AuditAction    `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   *string        `json:"entityID,omitempty"`
	UserID     string         `json:"userID"`
	Success    bool           `json:"success"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}
