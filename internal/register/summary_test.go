package register

import (
	"testing"

	"caja-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func income(amount string, cat models.TransactionCategory, pm models.PaymentMethod) models.Transaction {
	return models.Transaction{
		TransactionType: models.TransactionTypeIncome,
		Amount:          dec(amount),
		Category:        cat,
		PaymentMethod:   pm,
	}
}

func outcome(amount string, cat models.TransactionCategory, pm models.PaymentMethod) models.Transaction {
	return models.Transaction{
		TransactionType: models.TransactionTypeOutcome,
		Amount:          dec(amount),
		Category:        cat,
		PaymentMethod:   pm,
	}
}

func TestCalculateShiftSummary_SinTransacciones(t *testing.T) {
	reg := &models.CashRegister{
		OpeningBalance: dec("500.00"),
		CurrentBalance: dec("500.00"),
	}

	s := CalculateShiftSummary(reg, nil)

	assert.Equal(t, "0.00", s.TotalIncome.StringFixed(2))
	assert.Equal(t, "0.00", s.TotalOutcome.StringFixed(2))
	assert.Equal(t, "0.00", s.NetTotal.StringFixed(2))
	assert.Empty(t, s.CategoryBreakdown)
	assert.Empty(t, s.PaymentBreakdown)
	assert.Equal(t, "500.00", s.ExpectedCash.StringFixed(2))
	assert.Equal(t, 0, s.TransactionCount)
	assert.Equal(t, "500.00", s.FinalBalance.StringFixed(2))
}

func TestCalculateShiftSummary_EfectivoNetea(t *testing.T) {
	reg := &models.CashRegister{
		OpeningBalance: dec("500.00"),
		CurrentBalance: dec("650.00"),
	}
	txns := []models.Transaction{
		income("200.00", models.CategoryPapeleriaSale, models.PaymentMethodCash),
		outcome("50.00", models.CategoryExpenseOperational, models.PaymentMethodCash),
	}

	s := CalculateShiftSummary(reg, txns)

	assert.Equal(t, "200.00", s.TotalIncome.StringFixed(2))
	assert.Equal(t, "50.00", s.TotalOutcome.StringFixed(2))
	assert.Equal(t, "150.00", s.NetTotal.StringFixed(2))
	assert.Equal(t, "650.00", s.ExpectedCash.StringFixed(2))
	assert.Equal(t, 2, s.TransactionCount)

	flow, ok := s.PaymentBreakdown["Efectivo"]
	assert.True(t, ok)
	assert.Equal(t, "200.00", flow.Income.StringFixed(2))
	assert.Equal(t, "50.00", flow.Outcome.StringFixed(2))
	assert.Equal(t, "150.00", flow.Net.StringFixed(2))
}

func TestCalculateShiftSummary_OmiteCategoriasEnCero(t *testing.T) {
	reg := &models.CashRegister{OpeningBalance: dec("0.00")}
	txns := []models.Transaction{
		income("120.00", models.CategoryPapeleriaSale, models.PaymentMethodCash),
	}

	s := CalculateShiftSummary(reg, txns)

	assert.Len(t, s.CategoryBreakdown, 1)
	assert.Equal(t, "120.00", s.CategoryBreakdown["Venta de Papelería"].StringFixed(2))
	_, hasBankOps := s.CategoryBreakdown["Operación Bancaria"]
	assert.False(t, hasBankOps)
}

func TestCalculateShiftSummary_SoloTransferencia(t *testing.T) {
	reg := &models.CashRegister{OpeningBalance: dec("100.00")}
	txns := []models.Transaction{
		income("300.00", models.CategoryBankOperation, models.PaymentMethodTransfer),
	}

	s := CalculateShiftSummary(reg, txns)

	flow, ok := s.PaymentBreakdown["Transferencia"]
	assert.True(t, ok)
	assert.Equal(t, "300.00", flow.Income.StringFixed(2))
	assert.Equal(t, "0.00", flow.Outcome.StringFixed(2))
	assert.Equal(t, "300.00", flow.Net.StringFixed(2))

	// sin movimiento de efectivo, la cubeta Efectivo no aparece
	_, hasCash := s.PaymentBreakdown["Efectivo"]
	assert.False(t, hasCash)

	// y el efectivo esperado queda en el saldo inicial
	assert.Equal(t, "100.00", s.ExpectedCash.StringFixed(2))
}

func TestCalculateShiftSummary_NetoCeroSeOmite(t *testing.T) {
	reg := &models.CashRegister{OpeningBalance: dec("0.00")}
	txns := []models.Transaction{
		income("75.00", models.CategoryGeneralTransaction, models.PaymentMethodCard),
		outcome("75.00", models.CategoryOtherExpense, models.PaymentMethodCard),
	}

	s := CalculateShiftSummary(reg, txns)

	_, hasCard := s.PaymentBreakdown["Tarjeta"]
	assert.False(t, hasCard)
}

func TestCalculateBalance(t *testing.T) {
	txns := []models.Transaction{
		income("200.00", models.CategoryPapeleriaSale, models.PaymentMethodCash),
		income("35.50", models.CategoryOtherIncome, models.PaymentMethodTransfer),
		outcome("50.00", models.CategoryExpenseSupplies, models.PaymentMethodCash),
	}

	balance := CalculateBalance(dec("500.00"), txns)
	assert.Equal(t, "685.50", balance.StringFixed(2))

	// recalcular sobre la misma lista es idempotente
	assert.Equal(t, "685.50", CalculateBalance(dec("500.00"), txns).StringFixed(2))
}
