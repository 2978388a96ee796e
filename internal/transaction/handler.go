package transaction

import (
	"errors"
	"fmt"
	"time"

	"caja-backend/internal/audit"
	"caja-backend/internal/auth"
	"caja-backend/internal/database"
	"caja-backend/internal/models"
	"caja-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	TransactionType      models.TransactionType     `json:"transaction_type" validate:"required,oneof=income outcome"`
	Amount               decimal.Decimal            `json:"amount"`
	Description          string                     `json:"description" validate:"required,max=255"`
	Category             models.TransactionCategory `json:"category"`
	PaymentMethod        models.PaymentMethod       `json:"payment_method"`
	BankID               *uint                      `json:"bank_id"`
	EntityID             *uint                      `json:"entity_id"`
	Commission           decimal.Decimal            `json:"commission"`
	CommissionPercentage decimal.Decimal            `json:"commission_percentage"`
	ReferenceNumber      string                     `json:"reference_number" validate:"max=50"`
	Notes                string                     `json:"notes" validate:"max=500"`
}

type TransactionResponse struct {
	ID                   uint                       `json:"id"`
	TransactionType      models.TransactionType     `json:"transaction_type"`
	Amount               decimal.Decimal            `json:"amount"`
	NetAmount            decimal.Decimal            `json:"net_amount"`
	Description          string                     `json:"description"`
	Category             models.TransactionCategory `json:"category"`
	PaymentMethod        models.PaymentMethod       `json:"payment_method"`
	BankID               *uint                      `json:"bank_id"`
	EntityID             *uint                      `json:"entity_id"`
	Commission           decimal.Decimal            `json:"commission"`
	CommissionPercentage decimal.Decimal            `json:"commission_percentage"`
	ReferenceNumber      string                     `json:"reference_number"`
	Notes                string                     `json:"notes"`
	CashRegisterID       *uint                      `json:"cash_register_id"`
	TransactionDate      string                     `json:"transaction_date"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalIncome  decimal.Decimal       `json:"total_income"`
	TotalOutcome decimal.Decimal       `json:"total_outcome"`
	NetTotal     decimal.Decimal       `json:"net_total"`
}

func toTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                   t.ID,
		TransactionType:      t.TransactionType,
		Amount:               t.Amount,
		NetAmount:            t.NetAmount(),
		Description:          t.Description,
		Category:             t.Category,
		PaymentMethod:        t.PaymentMethod,
		BankID:               t.BankID,
		EntityID:             t.EntityID,
		Commission:           t.Commission,
		CommissionPercentage: t.CommissionPercentage,
		ReferenceNumber:      t.ReferenceNumber,
		Notes:                t.Notes,
		CashRegisterID:       t.CashRegisterID,
		TransactionDate:      t.TransactionDate.Format("2006-01-02 15:04:05"),
	}
}

// validación de dominio sobre el request; no muta nada si algo falla
func validateCreateRequest(body *CreateTransactionRequest) error {
	if !body.Amount.GreaterThan(decimal.Zero) {
		return fiber.NewError(fiber.StatusBadRequest, "El monto debe ser mayor a 0")
	}
	if body.Commission.IsNegative() || body.CommissionPercentage.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "La comisión no puede ser negativa")
	}

	if body.Category == "" {
		body.Category = models.CategoryGeneralTransaction
	}
	if !models.ValidCategory(body.Category) {
		return fiber.NewError(fiber.StatusBadRequest, "Categoría inválida")
	}

	if body.PaymentMethod == "" {
		body.PaymentMethod = models.PaymentMethodCash
	}
	if !models.ValidPaymentMethod(body.PaymentMethod) {
		return fiber.NewError(fiber.StatusBadRequest, "Método de pago inválido")
	}

	if (body.PaymentMethod == models.PaymentMethodTransfer || body.PaymentMethod == models.PaymentMethodCard) && body.BankID == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Debes seleccionar un banco para transferencias y pagos con tarjeta")
	}

	if body.BankID != nil {
		var bank models.Bank
		if err := database.DB.First(&bank, "id = ? AND is_active = ?", *body.BankID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "El banco no existe o no está activo")
		}
	}
	if body.EntityID != nil {
		var entity models.Entity
		if err := database.DB.First(&entity, "id = ? AND is_active = ?", *body.EntityID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "La entidad no existe o no está activa")
		}
	}

	return nil
}

// -------------------------------------------------
// POST /api/transactions
// -------------------------------------------------
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}
		if err := validateCreateRequest(&body); err != nil {
			return err
		}

		txn, err := Append(database.DB, userID, CreateInput{
			TransactionType:      body.TransactionType,
			Amount:               body.Amount,
			Description:          body.Description,
			Category:             body.Category,
			PaymentMethod:        body.PaymentMethod,
			BankID:               body.BankID,
			EntityID:             body.EntityID,
			Commission:           body.Commission,
			CommissionPercentage: body.CommissionPercentage,
			ReferenceNumber:      body.ReferenceNumber,
			Notes:                body.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrNoOpenRegister) {
				return fiber.NewError(fiber.StatusConflict, "No tienes una caja abierta para registrar transacciones")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo registrar la transacción")
		}

		var user models.User
		database.DB.First(&user, userID)
		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      userID,
			UserName:    user.Name,
			EntityType:  "transaction",
			EntityID:    txn.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("%s de %s registrado", typeText(txn.TransactionType), txn.Amount.StringFixed(2)),
			After:       toTransactionResponse(txn),
		}); logErr != nil {
			fmt.Printf("No se pudo escribir el log de auditoría: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(txn))
	}
}

func typeText(tt models.TransactionType) string {
	if tt == models.TransactionTypeIncome {
		return "Ingreso"
	}
	return "Egreso"
}

// -------------------------------------------------
// GET /api/transactions?type=income&from=2026-08-01&to=2026-08-31
// Devuelve las transacciones del usuario con totales del conjunto filtrado
// -------------------------------------------------
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)

		if typeStr := c.Query("type"); typeStr != "" {
			if !models.ValidTransactionType(models.TransactionType(typeStr)) {
				return fiber.NewError(fiber.StatusBadRequest, "type debe ser income u outcome")
			}
			dbq = dbq.Where("transaction_type = ?", typeStr)
		}

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'from' inválida, debe ser YYYY-MM-DD")
			}
			dbq = dbq.Where("transaction_date >= ?", from)
		}

		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Fecha 'to' inválida, debe ser YYYY-MM-DD")
			}
			dbq = dbq.Where("transaction_date < ?", to.AddDate(0, 0, 1))
		}

		var txns []models.Transaction
		if err := dbq.Order("transaction_date DESC, id DESC").Find(&txns).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las transacciones")
		}

		resp := TransactionListResponse{
			Transactions: make([]TransactionResponse, 0, len(txns)),
			TotalIncome:  decimal.Zero,
			TotalOutcome: decimal.Zero,
		}
		for i := range txns {
			resp.Transactions = append(resp.Transactions, toTransactionResponse(&txns[i]))
			if txns[i].TransactionType == models.TransactionTypeIncome {
				resp.TotalIncome = resp.TotalIncome.Add(txns[i].Amount)
			} else {
				resp.TotalOutcome = resp.TotalOutcome.Add(txns[i].Amount)
			}
		}
		resp.NetTotal = resp.TotalIncome.Sub(resp.TotalOutcome)

		return c.JSON(resp)
	}
}
