package models

import "time"

// AuditFields is embedded by every persisted entity. DeletedAt is a plain
// column so soft-deleted rows can still be loaded and refused. Timestamps
// come from the entity, gorm must not stamp them.
type AuditFields struct {
	CreatedAt time.Time  `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	Version   int        `gorm:"not null;default:1" json:"version"`
	CreatedBy *uint      `json:"created_by,omitempty"`
	UpdatedBy *uint      `json:"updated_by,omitempty"`
}
