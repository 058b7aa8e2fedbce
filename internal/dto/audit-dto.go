package dto

import "coa-service/internal/entities"

// AuditEntryDTO is one audit-trail row on the wire.
type AuditEntryDTO struct {
	ID        uint64                 `json:"id"`
	Timestamp string                 `json:"timestamp"`
	SessionID string                 `json:"session_id"`
	Action    string                 `json:"action"`
	Code      string                 `json:"code"`
	Actor     string                 `json:"actor"`
	OldValues map[string]interface{} `json:"old_values,omitempty"`
	NewValues map[string]interface{} `json:"new_values,omitempty"`
}

func AuditEntryToDTO(e entities.AuditEntry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:        e.ID,
		Timestamp: e.Timestamp.Local().Format("2006-01-02 15:04:05"),
		SessionID: e.SessionID,
		Action:    e.Action,
		Code:      e.Code,
		Actor:     e.Actor,
		OldValues: e.OldValues,
		NewValues: e.NewValues,
	}
}

// ChangeRecordDTO is one session-journal delta on the wire.
type ChangeRecordDTO struct {
	ID        uint64     `json:"id"`
	Action    string     `json:"action"`
	Timestamp string     `json:"timestamp"`
	Account   AccountDTO `json:"account"`
}

func ChangeRecordToDTO(r entities.ChangeRecord) ChangeRecordDTO {
	return ChangeRecordDTO{
		ID:        r.ID,
		Action:    r.Action,
		Timestamp: r.Timestamp.Local().Format("2006-01-02 15:04:05"),
		Account:   AccountToDTO(r.Account),
	}
}
