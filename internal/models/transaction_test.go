package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNetAmount(t *testing.T) {
	income := Transaction{
		TransactionType: TransactionTypeIncome,
		Amount:          dec("100.00"),
		Commission:      dec("5.00"),
	}
	assert.Equal(t, "95.00", income.NetAmount().StringFixed(2))

	outcome := Transaction{
		TransactionType: TransactionTypeOutcome,
		Amount:          dec("100.00"),
		Commission:      dec("5.00"),
	}
	assert.Equal(t, "105.00", outcome.NetAmount().StringFixed(2))
}

func TestNetAmount_SinComision(t *testing.T) {
	txn := Transaction{
		TransactionType: TransactionTypeIncome,
		Amount:          dec("50.00"),
	}
	assert.Equal(t, "50.00", txn.NetAmount().StringFixed(2))
}

func TestValidadores(t *testing.T) {
	assert.True(t, ValidTransactionType(TransactionTypeIncome))
	assert.True(t, ValidTransactionType(TransactionTypeOutcome))
	assert.False(t, ValidTransactionType("transfer"))

	assert.True(t, ValidPaymentMethod(PaymentMethodDigitalWallet))
	assert.False(t, ValidPaymentMethod("bitcoin"))

	assert.True(t, ValidCategory(CategoryCashAdjustment))
	assert.False(t, ValidCategory("ventas"))
}
