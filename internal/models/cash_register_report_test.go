package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedCashBalance(t *testing.T) {
	report := CashRegisterReport{
		OpeningBalance: dec("500.00"),
		CashTotal:      dec("150.00"),
	}
	assert.Equal(t, "650.00", report.ExpectedCashBalance().StringFixed(2))
}

func TestHasCashDiscrepancy(t *testing.T) {
	t.Run("sin conteo físico no hay discrepancia", func(t *testing.T) {
		report := CashRegisterReport{CashDifference: dec("-10.00")}
		assert.False(t, report.HasCashDiscrepancy())
	})

	t.Run("diferencia dentro de la tolerancia", func(t *testing.T) {
		physical := dec("650.01")
		report := CashRegisterReport{
			PhysicalCashCount: &physical,
			CashDifference:    dec("0.01"),
		}
		assert.False(t, report.HasCashDiscrepancy())
	})

	t.Run("diferencia fuera de la tolerancia", func(t *testing.T) {
		physical := dec("640.00")
		report := CashRegisterReport{
			PhysicalCashCount: &physical,
			CashDifference:    dec("-10.00"),
		}
		assert.True(t, report.HasCashDiscrepancy())
	})

	t.Run("faltante de dos centavos sí cuenta", func(t *testing.T) {
		physical := dec("649.98")
		report := CashRegisterReport{
			PhysicalCashCount: &physical,
			CashDifference:    dec("-0.02"),
		}
		assert.True(t, report.HasCashDiscrepancy())
	})
}
