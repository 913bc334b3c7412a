package models

import "time"

// AuditLog is the append-only trail for imports, sync-backs and one-shot
// corrective passes. The time-fix sentinel lives here: a row with the fix
// action present means the pass already ran.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"created_at" gorm:"index:idx_audit_logs_created_at,sort:desc"`
	Username   string    `json:"username" gorm:"size:120;not null;default:''"`
	Action     string    `json:"action" gorm:"size:60;not null;index"`
	EntityType string    `json:"entity_type" gorm:"size:40;not null;default:''"`
	EntityID   string    `json:"entity_id" gorm:"size:60;not null;default:''"`
	Status     string    `json:"status" gorm:"size:20;not null;default:'ok'"`
	Details    string    `json:"details" gorm:"size:1000;not null;default:''"`
}
