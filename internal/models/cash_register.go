package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterStatus string

const (
	RegisterStatusOpen      RegisterStatus = "open"
	RegisterStatusClosed    RegisterStatus = "closed"
	RegisterStatusSuspended RegisterStatus = "suspended"
)

// CashRegister: una caja registradora durante un turno (apertura -> cierre).
// Invariante: CurrentBalance = OpeningBalance + sum(ingresos) - sum(egresos),
// recalculado tras cada transacción (ver transaction.RecomputeBalance).
type CashRegister struct {
	ID             uint            `gorm:"primaryKey"`
	Name           string          `gorm:"size:100;not null"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status         RegisterStatus  `gorm:"size:10;not null;default:'closed';index"`
	OpenedByID     *uint           `gorm:"index"`
	OpenedBy       *User           `gorm:"foreignKey:OpenedByID"`
	ClosedByID     *uint
	ClosedBy       *User `gorm:"foreignKey:ClosedByID"`
	OpenedAt       *time.Time
	ClosedAt       *time.Time
	Notes          string `gorm:"size:500"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Transactions []Transaction `gorm:"foreignKey:CashRegisterID"`
}
