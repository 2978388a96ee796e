package register

import (
	"caja-backend/internal/models"

	"github.com/shopspring/decimal"
)

type PaymentFlow struct {
	Income  decimal.Decimal `json:"income"`
	Outcome decimal.Decimal `json:"outcome"`
	Net     decimal.Decimal `json:"net"`
}

type ShiftSummary struct {
	TotalIncome       decimal.Decimal            `json:"total_income"`
	TotalOutcome      decimal.Decimal            `json:"total_outcome"`
	NetTotal          decimal.Decimal            `json:"net_total"`
	CategoryBreakdown map[string]decimal.Decimal `json:"category_breakdown"`
	PaymentBreakdown  map[string]PaymentFlow     `json:"payment_breakdown"`
	ExpectedCash      decimal.Decimal            `json:"expected_cash"`
	TransactionCount  int                        `json:"transaction_count"`
	FinalBalance      decimal.Decimal            `json:"final_balance"`
}

// CalculateShiftSummary arma la vista previa del turno antes del cierre.
// Pura: no toca la base de datos, solo agrega sobre el slice recibido.
// El desglose por categoría considera solo ingresos y omite categorías en
// cero; el desglose por método de pago omite entradas con neto cero.
func CalculateShiftSummary(reg *models.CashRegister, txns []models.Transaction) ShiftSummary {
	zero := decimal.Zero

	totalIncome := zero
	totalOutcome := zero

	categoryIncome := map[models.TransactionCategory]decimal.Decimal{}
	methodIncome := map[models.PaymentMethod]decimal.Decimal{}
	methodOutcome := map[models.PaymentMethod]decimal.Decimal{}

	for _, t := range txns {
		switch t.TransactionType {
		case models.TransactionTypeIncome:
			totalIncome = totalIncome.Add(t.Amount)
			categoryIncome[t.Category] = categoryIncome[t.Category].Add(t.Amount)
			methodIncome[t.PaymentMethod] = methodIncome[t.PaymentMethod].Add(t.Amount)
		case models.TransactionTypeOutcome:
			totalOutcome = totalOutcome.Add(t.Amount)
			methodOutcome[t.PaymentMethod] = methodOutcome[t.PaymentMethod].Add(t.Amount)
		}
	}

	categoryBreakdown := map[string]decimal.Decimal{}
	for _, cat := range models.AllCategories {
		amount := categoryIncome[cat]
		if amount.GreaterThan(zero) {
			categoryBreakdown[models.CategoryLabels[cat]] = amount
		}
	}

	paymentBreakdown := map[string]PaymentFlow{}
	for _, pm := range models.AllPaymentMethods {
		income := methodIncome[pm]
		outcome := methodOutcome[pm]
		net := income.Sub(outcome)
		if !net.IsZero() {
			paymentBreakdown[models.PaymentMethodLabels[pm]] = PaymentFlow{
				Income:  income,
				Outcome: outcome,
				Net:     net,
			}
		}
	}

	cashNet := methodIncome[models.PaymentMethodCash].Sub(methodOutcome[models.PaymentMethodCash])

	return ShiftSummary{
		TotalIncome:       totalIncome,
		TotalOutcome:      totalOutcome,
		NetTotal:          totalIncome.Sub(totalOutcome),
		CategoryBreakdown: categoryBreakdown,
		PaymentBreakdown:  paymentBreakdown,
		ExpectedCash:      reg.OpeningBalance.Add(cashNet),
		TransactionCount:  len(txns),
		FinalBalance:      reg.CurrentBalance,
	}
}

// CalculateBalance: saldo inicial + ingresos - egresos, sobre TODAS las
// transacciones de la caja (recalculo completo, no incremental)
func CalculateBalance(openingBalance decimal.Decimal, txns []models.Transaction) decimal.Decimal {
	balance := openingBalance
	for _, t := range txns {
		switch t.TransactionType {
		case models.TransactionTypeIncome:
			balance = balance.Add(t.Amount)
		case models.TransactionTypeOutcome:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance
}
