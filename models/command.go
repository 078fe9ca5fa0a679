package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Command is a tab. CompanyID is copied from the table so cash sessions can
// find settled commands without a join.
type Command struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	CompanyID   uint                `gorm:"not null;index:idx_command_company_closed" json:"company_id"`
	TableID     uint                `gorm:"not null;index" json:"table_id"`
	Table       Table               `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	EmployeeID  uint                `gorm:"not null" json:"employee_id"`
	StatusID    uint                `gorm:"not null;index" json:"status_id"`
	Status      CommandStatus       `gorm:"foreignKey:StatusID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TotalAmount decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"total_amount"`
	OpenedAt    time.Time           `gorm:"not null" json:"opened_at"`
	ClosedAt    *time.Time          `gorm:"index:idx_command_company_closed" json:"closed_at,omitempty"`
	ClosedBy    *uint               `json:"closed_by,omitempty"`
	Orders      []Order             `gorm:"foreignKey:CommandID" json:"orders,omitempty"`
	AuditFields
}
