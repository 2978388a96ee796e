package transaction

import (
	"errors"
	"time"

	"caja-backend/internal/models"
	"caja-backend/internal/register"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNoOpenRegister = errors.New("el usuario no tiene una caja abierta")

var hundred = decimal.NewFromInt(100)

type CreateInput struct {
	TransactionType      models.TransactionType
	Amount               decimal.Decimal
	Description          string
	Category             models.TransactionCategory
	PaymentMethod        models.PaymentMethod
	BankID               *uint
	EntityID             *uint
	Commission           decimal.Decimal
	CommissionPercentage decimal.Decimal
	ReferenceNumber      string
	Notes                string
}

// DeriveCommission: si hay porcentaje y la comisión declarada difiere del
// cálculo en más de 0.01, manda el cálculo sobre el valor declarado.
func DeriveCommission(amount, commission, percentage decimal.Decimal) decimal.Decimal {
	if percentage.IsZero() || amount.IsZero() {
		return commission
	}
	calculated := amount.Mul(percentage).Div(hundred).Round(2)
	if commission.Sub(calculated).Abs().GreaterThan(models.CashDiscrepancyTolerance) {
		return calculated
	}
	return commission
}

// Append registra la transacción contra la caja abierta del usuario y luego,
// como paso explícito dentro de la misma transacción de base de datos,
// recalcula el saldo de la caja. El lock de fila sobre la caja evita que dos
// requests concurrentes pisen el recálculo.
func Append(db *gorm.DB, userID uint, in CreateInput) (*models.Transaction, error) {
	var txn *models.Transaction

	err := db.Transaction(func(tx *gorm.DB) error {
		var reg models.CashRegister
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("opened_by_id = ? AND status = ?", userID, models.RegisterStatusOpen).
			First(&reg).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOpenRegister
			}
			return err
		}

		txn = &models.Transaction{
			TransactionType:      in.TransactionType,
			Amount:               in.Amount,
			Description:          in.Description,
			Category:             in.Category,
			PaymentMethod:        in.PaymentMethod,
			BankID:               in.BankID,
			EntityID:             in.EntityID,
			Commission:           DeriveCommission(in.Amount, in.Commission, in.CommissionPercentage),
			CommissionPercentage: in.CommissionPercentage,
			ReferenceNumber:      in.ReferenceNumber,
			Notes:                in.Notes,
			CashRegisterID:       &reg.ID,
			UserID:               userID,
			TransactionDate:      time.Now(),
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		return RecomputeBalance(tx, &reg)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// RecomputeBalance recalcula el saldo actual desde cero sobre todas las
// transacciones de la caja. O(n) por escritura, suficiente a escala de un
// turno; si el volumen crece, conviene un acumulado incremental protegido
// por el mismo lock de fila.
func RecomputeBalance(tx *gorm.DB, reg *models.CashRegister) error {
	var txns []models.Transaction
	if err := tx.Where("cash_register_id = ?", reg.ID).Find(&txns).Error; err != nil {
		return err
	}

	reg.CurrentBalance = register.CalculateBalance(reg.OpeningBalance, txns)
	return tx.Model(reg).Update("current_balance", reg.CurrentBalance).Error
}
