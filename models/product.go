package models

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint                   `gorm:"primaryKey" json:"id"`
	CompanyID   uint                   `gorm:"not null;index" json:"company_id"`
	Name        string                 `gorm:"type:varchar(255);not null" json:"name"`
	Price       decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"price"`
	Description string                 `gorm:"type:text" json:"description"`
	Groups      []ProductModifierGroup `gorm:"foreignKey:ProductID" json:"groups,omitempty"`
	AuditFields
}

type ProductModifierGroup struct {
	ID           uint                    `gorm:"primaryKey" json:"id"`
	ProductID    uint                    `gorm:"not null;index" json:"product_id"`
	Name         string                  `gorm:"type:varchar(100);not null" json:"name"`
	MinSelection int                     `gorm:"not null;default:0" json:"min_selection"`
	MaxSelection int                     `gorm:"not null;default:1" json:"max_selection"`
	Options      []ProductModifierOption `gorm:"foreignKey:GroupID" json:"options,omitempty"`
}

type ProductModifierOption struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	GroupID    uint            `gorm:"not null;index" json:"group_id"`
	Name       string          `gorm:"type:varchar(100);not null" json:"name"`
	PriceDelta decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price_delta"`
}
