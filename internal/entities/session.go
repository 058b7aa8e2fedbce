package entities

import "time"

// SessionMeta is the bookkeeping record of one editing session.
type SessionMeta struct {
	SessionID     string    `json:"session_id"`
	SourceTableID string    `json:"source_table_id"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	Dirty         bool      `json:"dirty"`
}
