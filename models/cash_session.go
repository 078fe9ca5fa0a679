package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CashSession struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	CompanyID    uint              `gorm:"not null;index" json:"company_id"`
	EmployeeID   uint              `gorm:"not null" json:"employee_id"`
	StatusID     uint              `gorm:"not null;index" json:"status_id"`
	Status       CashSessionStatus `gorm:"foreignKey:StatusID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	InitialFloat decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"initial_float"`
	StartedAt    time.Time         `gorm:"not null" json:"started_at"`
	EndedAt      *time.Time        `json:"ended_at,omitempty"`
	OpenedBy     uint              `gorm:"not null" json:"opened_by"`
	ClosedBy     *uint             `json:"closed_by,omitempty"`
	AuditFields
}
