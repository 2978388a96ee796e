package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tolerancia para marcar una discrepancia de efectivo (redondeo a 2 decimales)
var CashDiscrepancyTolerance = decimal.NewFromFloat(0.01)

// CashRegisterReport: foto inmutable del cierre de una caja. Se crea una sola
// vez al cerrar (uniqueIndex sobre CashRegisterID) y no se modifica después.
type CashRegisterReport struct {
	ID             uint `gorm:"primaryKey"`
	CashRegisterID uint `gorm:"uniqueIndex;not null"`
	CashRegister   CashRegister
	ReportCode     string `gorm:"size:36;uniqueIndex;not null"`

	OpeningBalance   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ClosingBalance   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalIncome      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalOutcome     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCommissions decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Desglose por categoría (solo ingresos)
	PapeleriaIncome           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	BankOperationsIncome      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CommissionIncome          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GeneralTransactionsIncome decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	OtherIncome               decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Desglose por método de pago. Ojo: solo el efectivo descuenta egresos,
	// los demás métodos suman ingresos y egresos sin restar (heredado).
	CashTotal         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TransferTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CardTotal         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	OtherPaymentTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Arqueo de efectivo
	PhysicalCashCount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CashDifference    decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`

	TransactionCount     int `gorm:"not null;default:0"`
	ShiftDurationMinutes *int
	Notes                string `gorm:"size:500"`
	CreatedAt            time.Time
}

// ExpectedCashBalance: efectivo que debería haber físicamente en la caja
func (r *CashRegisterReport) ExpectedCashBalance() decimal.Decimal {
	return r.OpeningBalance.Add(r.CashTotal)
}

// HasCashDiscrepancy: true si el conteo físico se aparta más de la tolerancia
func (r *CashRegisterReport) HasCashDiscrepancy() bool {
	return r.PhysicalCashCount != nil && r.CashDifference.Abs().GreaterThan(CashDiscrepancyTolerance)
}
