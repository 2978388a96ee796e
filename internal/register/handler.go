package register

import (
	"errors"
	"fmt"

	"caja-backend/internal/audit"
	"caja-backend/internal/auth"
	"caja-backend/internal/database"
	"caja-backend/internal/models"
	"caja-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type OpenRegisterRequest struct {
	Name           string          `json:"name" validate:"required,max=100"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Notes          string          `json:"notes" validate:"max=500"`
}

type CloseRegisterRequest struct {
	PhysicalCashCount decimal.Decimal `json:"physical_cash_count"`
	Notes             string          `json:"notes" validate:"max=500"`
}

type RegisterResponse struct {
	ID             uint                  `json:"id"`
	Name           string                `json:"name"`
	OpeningBalance decimal.Decimal       `json:"opening_balance"`
	CurrentBalance decimal.Decimal       `json:"current_balance"`
	Status         models.RegisterStatus `json:"status"`
	OpenedAt       *string               `json:"opened_at"`
	ClosedAt       *string               `json:"closed_at"`
	Notes          string                `json:"notes"`
}

type ReportResponse struct {
	ID                        uint             `json:"id"`
	ReportCode                string           `json:"report_code"`
	CashRegisterID            uint             `json:"cash_register_id"`
	OpeningBalance            decimal.Decimal  `json:"opening_balance"`
	ClosingBalance            decimal.Decimal  `json:"closing_balance"`
	TotalIncome               decimal.Decimal  `json:"total_income"`
	TotalOutcome              decimal.Decimal  `json:"total_outcome"`
	TotalCommissions          decimal.Decimal  `json:"total_commissions"`
	PapeleriaIncome           decimal.Decimal  `json:"papeleria_income"`
	BankOperationsIncome      decimal.Decimal  `json:"bank_operations_income"`
	CommissionIncome          decimal.Decimal  `json:"commission_income"`
	GeneralTransactionsIncome decimal.Decimal  `json:"general_transactions_income"`
	OtherIncome               decimal.Decimal  `json:"other_income"`
	CashTotal                 decimal.Decimal  `json:"cash_total"`
	TransferTotal             decimal.Decimal  `json:"transfer_total"`
	CardTotal                 decimal.Decimal  `json:"card_total"`
	OtherPaymentTotal         decimal.Decimal  `json:"other_payment_total"`
	ExpectedCashBalance       decimal.Decimal  `json:"expected_cash_balance"`
	PhysicalCashCount         *decimal.Decimal `json:"physical_cash_count"`
	CashDifference            decimal.Decimal  `json:"cash_difference"`
	HasCashDiscrepancy        bool             `json:"has_cash_discrepancy"`
	TransactionCount          int              `json:"transaction_count"`
	ShiftDurationMinutes      *int             `json:"shift_duration_minutes"`
	Notes                     string           `json:"notes"`
	CreatedAt                 string           `json:"created_at"`
}

func ToResponse(reg *models.CashRegister) RegisterResponse {
	resp := RegisterResponse{
		ID:             reg.ID,
		Name:           reg.Name,
		OpeningBalance: reg.OpeningBalance,
		CurrentBalance: reg.CurrentBalance,
		Status:         reg.Status,
		Notes:          reg.Notes,
	}
	if reg.OpenedAt != nil {
		s := reg.OpenedAt.Format("2006-01-02 15:04:05")
		resp.OpenedAt = &s
	}
	if reg.ClosedAt != nil {
		s := reg.ClosedAt.Format("2006-01-02 15:04:05")
		resp.ClosedAt = &s
	}
	return resp
}

func toReportResponse(r *models.CashRegisterReport) ReportResponse {
	return ReportResponse{
		ID:                        r.ID,
		ReportCode:                r.ReportCode,
		CashRegisterID:            r.CashRegisterID,
		OpeningBalance:            r.OpeningBalance,
		ClosingBalance:            r.ClosingBalance,
		TotalIncome:               r.TotalIncome,
		TotalOutcome:              r.TotalOutcome,
		TotalCommissions:          r.TotalCommissions,
		PapeleriaIncome:           r.PapeleriaIncome,
		BankOperationsIncome:      r.BankOperationsIncome,
		CommissionIncome:          r.CommissionIncome,
		GeneralTransactionsIncome: r.GeneralTransactionsIncome,
		OtherIncome:               r.OtherIncome,
		CashTotal:                 r.CashTotal,
		TransferTotal:             r.TransferTotal,
		CardTotal:                 r.CardTotal,
		OtherPaymentTotal:         r.OtherPaymentTotal,
		ExpectedCashBalance:       r.ExpectedCashBalance(),
		PhysicalCashCount:         r.PhysicalCashCount,
		CashDifference:            r.CashDifference,
		HasCashDiscrepancy:        r.HasCashDiscrepancy(),
		TransactionCount:          r.TransactionCount,
		ShiftDurationMinutes:      r.ShiftDurationMinutes,
		Notes:                     r.Notes,
		CreatedAt:                 r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// nombre del usuario para los logs de auditoría
func userName(userID uint) string {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return ""
	}
	return user.Name
}

// -------------------------------------------------
// POST /api/registers/open
// -------------------------------------------------
func OpenRegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body OpenRegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}
		if body.OpeningBalance.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "El saldo inicial no puede ser negativo")
		}

		reg, err := Open(database.DB, userID, OpenInput{
			Name:           body.Name,
			OpeningBalance: body.OpeningBalance,
			Notes:          body.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrAlreadyOpen) {
				return fiber.NewError(fiber.StatusConflict, "Ya tienes una caja abierta")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo abrir la caja")
		}

		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      userID,
			UserName:    userName(userID),
			EntityType:  "cash_register",
			EntityID:    reg.ID,
			Action:      models.AuditActionOpen,
			Description: fmt.Sprintf("Caja abierta: %s con saldo inicial %s", reg.Name, reg.OpeningBalance.StringFixed(2)),
			After:       ToResponse(reg),
		}); logErr != nil {
			fmt.Printf("No se pudo escribir el log de auditoría: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(ToResponse(reg))
	}
}

// -------------------------------------------------
// GET /api/registers/current
// -------------------------------------------------
func CurrentRegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		reg, err := CurrentOpen(database.DB, userID)
		if err != nil {
			if errors.Is(err, ErrRegisterNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "No tienes una caja abierta")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo consultar la caja")
		}

		return c.JSON(ToResponse(reg))
	}
}

// -------------------------------------------------
// GET /api/registers/current/summary
// Vista previa del turno antes de cerrar (no persiste nada)
// -------------------------------------------------
func ShiftSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		summary, err := SummaryForUser(database.DB, userID)
		if err != nil {
			if errors.Is(err, ErrRegisterNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "No tienes una caja abierta")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo calcular el resumen")
		}

		return c.JSON(summary)
	}
}

// -------------------------------------------------
// POST /api/registers/:id/close
// Genera el reporte, registra el arqueo y cierra la caja
// -------------------------------------------------
func CloseRegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		registerID, err := c.ParamsInt("id")
		if err != nil || registerID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID de caja inválido")
		}

		var body CloseRegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}
		if body.PhysicalCashCount.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "El conteo físico no puede ser negativo")
		}

		report, err := Close(database.DB, uint(registerID), userID, CloseInput{
			PhysicalCashCount: body.PhysicalCashCount,
			Notes:             body.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrRegisterNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Caja abierta no encontrada")
			case errors.Is(err, ErrReportExists):
				return fiber.NewError(fiber.StatusConflict, "La caja ya tiene un reporte de cierre")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo cerrar la caja")
			}
		}

		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      userID,
			UserName:    userName(userID),
			EntityType:  "cash_register",
			EntityID:    report.CashRegisterID,
			Action:      models.AuditActionClose,
			Description: fmt.Sprintf("Caja cerrada, diferencia de efectivo %s", report.CashDifference.StringFixed(2)),
			After:       toReportResponse(report),
		}); logErr != nil {
			fmt.Printf("No se pudo escribir el log de auditoría: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(toReportResponse(report))
	}
}

// -------------------------------------------------
// GET /api/reports/:id
// Visible para el dueño de la caja o para un admin
// -------------------------------------------------
func GetReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		reportID, err := c.ParamsInt("id")
		if err != nil || reportID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID de reporte inválido")
		}

		var report models.CashRegisterReport
		if err := database.DB.Preload("CashRegister").First(&report, reportID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reporte no encontrado")
		}

		if role != models.RoleAdmin {
			if report.CashRegister.OpenedByID == nil || *report.CashRegister.OpenedByID != userID {
				return fiber.NewError(fiber.StatusNotFound, "Reporte no encontrado")
			}
		}

		return c.JSON(toReportResponse(&report))
	}
}
