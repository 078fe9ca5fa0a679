package models

// Status tables share one shape; Key is the symbolic value used by the engine.

type CommandStatus struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"type:varchar(40);uniqueIndex;not null"`
	Description string `gorm:"type:varchar(255)"`
}

type OrderStatus struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"type:varchar(40);uniqueIndex;not null"`
	Description string `gorm:"type:varchar(255)"`
}

type CashSessionStatus struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"type:varchar(40);uniqueIndex;not null"`
	Description string `gorm:"type:varchar(255)"`
}

type TableStatus struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"type:varchar(40);uniqueIndex;not null"`
	Description string `gorm:"type:varchar(255)"`
}
