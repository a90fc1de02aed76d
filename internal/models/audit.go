package models

import "time"

// AuditEntry описывает запись журнала аудита.
type AuditEntry struct {
	Id        string      `json:"id"`
	Action    AuditAction `json:"action"`
	Entity    string      `json:"entity"`
	EntityId  string      `json:"entity_id"`
	Details   string      `json:"details"`
	CreatedAt *time.Time  `json:"created_at"`
}

// AuditAction описывает тип действия в журнале.
type AuditAction string

// Возможные значения AuditAction.
const (
	AuditActionDrawCommitted AuditAction = "DRAW_COMMITTED"
	AuditActionDrawDeleted   AuditAction = "DRAW_DELETED"
)
