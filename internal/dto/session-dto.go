package dto

// SessionDTO describes an open editing session.
type SessionDTO struct {
	SessionID      string   `json:"session_id"`
	Token          string   `json:"token,omitempty"`
	RowCount       int      `json:"row_count"`
	BusinessUnits  []string `json:"business_units"`
	UnsavedChanges bool     `json:"unsaved_changes"`
	ExpiresAt      string   `json:"expires_at"`
	SourceTableID  string   `json:"source_table_id"`
}

// RefreshSessionDTO controls the discard-and-reload operation.
type RefreshSessionDTO struct {
	Force bool `json:"force"`
}

// SaveResultDTO reports a master save.
type SaveResultDTO struct {
	TableID  string `json:"table_id"`
	RowCount int    `json:"row_count"`
	SavedAt  string `json:"saved_at"`
}
