package entities

import "time"

// Audit actions.
const (
	AuditActionAdd    = "ADD"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
	AuditActionImport = "IMPORT"
	AuditActionSave   = "SAVE"
)

// AuditEntry is one durable audit-trail row.
type AuditEntry struct {
	ID        uint64                 `json:"id" db:"id"`
	Timestamp time.Time              `json:"timestamp" db:"created_at"`
	SessionID string                 `json:"session_id" db:"session_id"`
	Action    string                 `json:"action" db:"action"`
	Code      string                 `json:"code" db:"code"`
	Actor     string                 `json:"actor" db:"actor"`
	OldValues map[string]interface{} `json:"old_values,omitempty" db:"old_values"`
	NewValues map[string]interface{} `json:"new_values,omitempty" db:"new_values"`
}

// ChangeRecord is one row of the per-session delta journal: the action plus a
// full snapshot of the affected account.
type ChangeRecord struct {
	ID        uint64    `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	Action    string    `json:"action" db:"action"`
	Timestamp time.Time `json:"timestamp" db:"created_at"`
	Account   Account   `json:"account" db:"-"`
}
