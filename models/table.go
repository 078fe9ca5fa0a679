package models

type Table struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	CompanyID uint        `gorm:"not null;uniqueIndex:idx_table_company_name" json:"company_id"`
	Name      string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_table_company_name" json:"name"`
	Capacity  int         `gorm:"not null" json:"capacity"`
	StatusID  uint        `gorm:"not null" json:"status_id"`
	Status    TableStatus `gorm:"foreignKey:StatusID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	AuditFields
}
