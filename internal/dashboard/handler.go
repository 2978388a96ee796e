package dashboard

import (
	"errors"
	"time"

	"caja-backend/internal/auth"
	"caja-backend/internal/database"
	"caja-backend/internal/models"
	"caja-backend/internal/register"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type RecentTransaction struct {
	ID              uint                       `json:"id"`
	TransactionType models.TransactionType     `json:"transaction_type"`
	Amount          decimal.Decimal            `json:"amount"`
	Description     string                     `json:"description"`
	Category        models.TransactionCategory `json:"category"`
	PaymentMethod   models.PaymentMethod       `json:"payment_method"`
	TransactionDate string                     `json:"transaction_date"`
}

type DashboardResponse struct {
	CurrentRegister    *register.RegisterResponse `json:"current_register"`
	RecentTransactions []RecentTransaction        `json:"recent_transactions"`
	DailyIncome        decimal.Decimal            `json:"daily_income"`
	DailyOutcome       decimal.Decimal            `json:"daily_outcome"`
	DailyBalance       decimal.Decimal            `json:"daily_balance"`
}

// -------------------------------------------------
// GET /api/dashboard
// Caja abierta del usuario, últimas transacciones y totales del día
// -------------------------------------------------
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		resp := DashboardResponse{
			RecentTransactions: []RecentTransaction{},
			DailyIncome:        decimal.Zero,
			DailyOutcome:       decimal.Zero,
		}

		if reg, err := register.CurrentOpen(database.DB, userID); err == nil {
			r := register.ToResponse(reg)
			resp.CurrentRegister = &r
		} else if !errors.Is(err, register.ErrRegisterNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo consultar la caja")
		}

		var recent []models.Transaction
		if err := database.DB.
			Where("user_id = ?", userID).
			Order("transaction_date DESC, id DESC").
			Limit(10).
			Find(&recent).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron consultar las transacciones")
		}
		for _, t := range recent {
			resp.RecentTransactions = append(resp.RecentTransactions, RecentTransaction{
				ID:              t.ID,
				TransactionType: t.TransactionType,
				Amount:          t.Amount,
				Description:     t.Description,
				Category:        t.Category,
				PaymentMethod:   t.PaymentMethod,
				TransactionDate: t.TransactionDate.Format("2006-01-02 15:04:05"),
			})
		}

		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		var today []models.Transaction
		if err := database.DB.
			Where("user_id = ? AND transaction_date >= ? AND transaction_date < ?", userID, dayStart, dayStart.AddDate(0, 0, 1)).
			Find(&today).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo calcular el resumen diario")
		}
		for _, t := range today {
			if t.TransactionType == models.TransactionTypeIncome {
				resp.DailyIncome = resp.DailyIncome.Add(t.Amount)
			} else {
				resp.DailyOutcome = resp.DailyOutcome.Add(t.Amount)
			}
		}
		resp.DailyBalance = resp.DailyIncome.Sub(resp.DailyOutcome)

		return c.JSON(resp)
	}
}
