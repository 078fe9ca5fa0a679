package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is one line item. Prices are the snapshot taken when it was placed.
type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CommandID      uint            `gorm:"not null;index" json:"command_id"`
	Command        Command         `gorm:"foreignKey:CommandID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID      uint            `gorm:"not null" json:"product_id"`
	Product        Product         `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	StatusID       uint            `gorm:"not null" json:"status_id"`
	Status         OrderStatus     `gorm:"foreignKey:StatusID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	BasePrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	ModifiersPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"modifiers_price"`
	Notes          string          `gorm:"type:varchar(500)" json:"notes"`
	Priority       *int            `json:"priority,omitempty"`
	CancelReason   *string         `gorm:"type:text" json:"cancel_reason,omitempty"`
	CanceledBy     *uint           `json:"canceled_by,omitempty"`
	CanceledAt     *time.Time      `json:"canceled_at,omitempty"`
	Modifiers      []OrderModifier `gorm:"foreignKey:OrderID" json:"modifiers"`
	AuditFields
}
