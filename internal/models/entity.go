package models

import "time"

type EntityType string

const (
	EntityTypeBank            EntityType = "bank"
	EntityTypePaymentPlatform EntityType = "payment_platform"
	EntityTypeCash            EntityType = "cash"
	EntityTypeOther           EntityType = "other"
)

// Entity: contraparte o plataforma de pago, distinta de un banco
type Entity struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"size:100;not null"`
	EntityType  EntityType `gorm:"size:20;not null;default:'other'"`
	Code        string     `gorm:"size:20;uniqueIndex;not null"`
	Description string     `gorm:"size:255"`
	IsActive    bool       `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
