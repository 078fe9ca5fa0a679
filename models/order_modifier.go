package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderModifier joins an order to a chosen option with the option price at
// selection time.
type OrderModifier struct {
	ID        uint                  `gorm:"primaryKey" json:"id"`
	OrderID   uint                  `gorm:"not null;index" json:"order_id"`
	OptionID  uint                  `gorm:"not null" json:"option_id"`
	Option    ProductModifierOption `gorm:"foreignKey:OptionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	GroupID   uint                  `gorm:"not null" json:"group_id"`
	Price     decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt time.Time             `gorm:"not null" json:"created_at"`
}
