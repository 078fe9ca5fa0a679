package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ClosingRecord is the reconciliation written when a cash session closes.
type ClosingRecord struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	SessionID            uint            `gorm:"not null;uniqueIndex" json:"session_id"`
	Session              CashSession     `gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	EmployeeID           uint            `gorm:"not null" json:"employee_id"`
	CountedCash          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"counted_cash"`
	CountedCard          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"counted_card"`
	CountedPix           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"counted_pix"`
	CountedOthers        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"counted_others"`
	FinalBalance         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"final_balance"`
	ExpectedFinalBalance decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"expected_final_balance"`
	Difference           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"difference"`
	Observations         *string         `gorm:"type:text" json:"observations,omitempty"`
	AuditBlob            datatypes.JSON  `json:"audit_blob,omitempty"`
	AuditFields
}
