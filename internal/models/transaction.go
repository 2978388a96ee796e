package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeOutcome TransactionType = "outcome"
)

type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodTransfer      PaymentMethod = "transfer"
	PaymentMethodCard          PaymentMethod = "card"
	PaymentMethodCheck         PaymentMethod = "check"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
	PaymentMethodOther         PaymentMethod = "other"
)

type TransactionCategory string

const (
	CategoryGeneralTransaction TransactionCategory = "general_transaction"
	CategoryPapeleriaSale      TransactionCategory = "papeleria_sale"
	CategoryBankOperation      TransactionCategory = "bank_operation"
	CategoryCommissionIncome   TransactionCategory = "commission_income"
	CategoryExpenseOperational TransactionCategory = "expense_operational"
	CategoryExpenseSupplies    TransactionCategory = "expense_supplies"
	CategoryCashAdjustment     TransactionCategory = "cash_adjustment"
	CategoryOtherIncome        TransactionCategory = "other_income"
	CategoryOtherExpense       TransactionCategory = "other_expense"
)

// Etiquetas visibles para los desgloses de resumen (mismo orden que los choices)
var CategoryLabels = map[TransactionCategory]string{
	CategoryGeneralTransaction: "Transacción General",
	CategoryPapeleriaSale:      "Venta de Papelería",
	CategoryBankOperation:      "Operación Bancaria",
	CategoryCommissionIncome:   "Ingreso por Comisiones",
	CategoryExpenseOperational: "Gasto Operacional",
	CategoryExpenseSupplies:    "Gasto en Suministros",
	CategoryCashAdjustment:     "Ajuste de Caja",
	CategoryOtherIncome:        "Otros Ingresos",
	CategoryOtherExpense:       "Otros Gastos",
}

var PaymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodCash:          "Efectivo",
	PaymentMethodTransfer:      "Transferencia",
	PaymentMethodCard:          "Tarjeta",
	PaymentMethodCheck:         "Cheque",
	PaymentMethodDigitalWallet: "Billetera Digital",
	PaymentMethodOther:         "Otro",
}

// Orden estable de iteración (los maps de Go no lo garantizan)
var AllCategories = []TransactionCategory{
	CategoryGeneralTransaction,
	CategoryPapeleriaSale,
	CategoryBankOperation,
	CategoryCommissionIncome,
	CategoryExpenseOperational,
	CategoryExpenseSupplies,
	CategoryCashAdjustment,
	CategoryOtherIncome,
	CategoryOtherExpense,
}

var AllPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodTransfer,
	PaymentMethodCard,
	PaymentMethodCheck,
	PaymentMethodDigitalWallet,
	PaymentMethodOther,
}

// Transaction: movimiento de caja, inmutable una vez creado.
type Transaction struct {
	ID                   uint                `gorm:"primaryKey"`
	TransactionType      TransactionType     `gorm:"size:10;not null;index"`
	Amount               decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Description          string              `gorm:"size:255;not null"`
	Category             TransactionCategory `gorm:"size:25;not null;default:'general_transaction'"`
	PaymentMethod        PaymentMethod       `gorm:"size:20;not null;default:'cash'"`
	BankID               *uint
	Bank                 *Bank
	EntityID             *uint
	Entity               *Entity
	Commission           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	ReferenceNumber      string          `gorm:"size:50"`
	Notes                string          `gorm:"size:500"`
	CashRegisterID       *uint           `gorm:"index"`
	CashRegister         *CashRegister
	UserID               uint `gorm:"index;not null"`
	User                 User
	TransactionDate      time.Time `gorm:"index;not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NetAmount: monto ajustado por comisión. Un ingreso entrega amount - commission,
// un egreso cuesta amount + commission.
func (t *Transaction) NetAmount() decimal.Decimal {
	if t.TransactionType == TransactionTypeIncome {
		return t.Amount.Sub(t.Commission)
	}
	return t.Amount.Add(t.Commission)
}

func ValidTransactionType(tt TransactionType) bool {
	return tt == TransactionTypeIncome || tt == TransactionTypeOutcome
}

func ValidPaymentMethod(pm PaymentMethod) bool {
	_, ok := PaymentMethodLabels[pm]
	return ok
}

func ValidCategory(cat TransactionCategory) bool {
	_, ok := CategoryLabels[cat]
	return ok
}
