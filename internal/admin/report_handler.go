package admin

import (
	"time"

	"caja-backend/internal/database"
	"caja-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ReportListItem struct {
	ID                 uint            `json:"id"`
	ReportCode         string          `json:"report_code"`
	CashRegisterID     uint            `json:"cash_register_id"`
	RegisterName       string          `json:"register_name"`
	OpeningBalance     decimal.Decimal `json:"opening_balance"`
	ClosingBalance     decimal.Decimal `json:"closing_balance"`
	TotalIncome        decimal.Decimal `json:"total_income"`
	TotalOutcome       decimal.Decimal `json:"total_outcome"`
	CashDifference     decimal.Decimal `json:"cash_difference"`
	HasCashDiscrepancy bool            `json:"has_cash_discrepancy"`
	TransactionCount   int             `json:"transaction_count"`
	CreatedAt          string          `json:"created_at"`
}

// -------------------------------------------------
// GET /api/admin/reports?from=2026-08-01&to=2026-08-31
// Listado de cierres para revisión administrativa
// -------------------------------------------------
func ListReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.CashRegisterReport{}).Preload("CashRegister")

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'from' inválida, debe ser YYYY-MM-DD")
			}
			dbq = dbq.Where("created_at >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'to' inválida, debe ser YYYY-MM-DD")
			}
			dbq = dbq.Where("created_at < ?", to.AddDate(0, 0, 1))
		}

		var reports []models.CashRegisterReport
		if err := dbq.Order("created_at DESC").Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los reportes")
		}

		resp := make([]ReportListItem, 0, len(reports))
		for i := range reports {
			r := &reports[i]
			resp = append(resp, ReportListItem{
				ID:                 r.ID,
				ReportCode:         r.ReportCode,
				CashRegisterID:     r.CashRegisterID,
				RegisterName:       r.CashRegister.Name,
				OpeningBalance:     r.OpeningBalance,
				ClosingBalance:     r.ClosingBalance,
				TotalIncome:        r.TotalIncome,
				TotalOutcome:       r.TotalOutcome,
				CashDifference:     r.CashDifference,
				HasCashDiscrepancy: r.HasCashDiscrepancy(),
				TransactionCount:   r.TransactionCount,
				CreatedAt:          r.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}
