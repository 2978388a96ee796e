package admin

import (
	"fmt"
	"strings"

	"caja-backend/internal/audit"
	"caja-backend/internal/auth"
	"caja-backend/internal/database"
	"caja-backend/internal/models"
	"caja-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateBankRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"required,max=10"`
}

type UpdateBankRequest struct {
	Name     *string `json:"name"`
	Code     *string `json:"code"`
	IsActive *bool   `json:"is_active"`
}

type BankResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

func toBankResponse(b *models.Bank) BankResponse {
	return BankResponse{ID: b.ID, Name: b.Name, Code: b.Code, IsActive: b.IsActive}
}

func actingUser(c *fiber.Ctx) (uint, string) {
	userID, _, err := auth.CurrentUser(c)
	if err != nil {
		return 0, ""
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return userID, ""
	}
	return userID, user.Name
}

// -------------------------------------------------
// POST /api/admin/banks
// -------------------------------------------------
func CreateBankHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBankRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		body.Code = strings.TrimSpace(strings.ToUpper(body.Code))
		if err := validation.Struct(body); err != nil {
			return err
		}

		bank := models.Bank{
			Name:     body.Name,
			Code:     body.Code,
			IsActive: true,
		}
		if err := database.DB.Create(&bank).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Ya existe un banco con ese código")
		}

		userID, userName := actingUser(c)
		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "bank",
			EntityID:    bank.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Banco creado: %s (%s)", bank.Name, bank.Code),
			After:       toBankResponse(&bank),
		}); logErr != nil {
			fmt.Printf("No se pudo escribir el log de auditoría: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(toBankResponse(&bank))
	}
}

// -------------------------------------------------
// GET /api/admin/banks?active=true
// -------------------------------------------------
func ListBanksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Bank{})
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var banks []models.Bank
		if err := dbq.Order("name asc").Find(&banks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los bancos")
		}

		resp := make([]BankResponse, 0, len(banks))
		for i := range banks {
			resp = append(resp, toBankResponse(&banks[i]))
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// PUT /api/admin/banks/:id
// -------------------------------------------------
func UpdateBankHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bankID, err := c.ParamsInt("id")
		if err != nil || bankID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID de banco inválido")
		}

		var bank models.Bank
		if err := database.DB.First(&bank, bankID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Banco no encontrado")
		}
		before := toBankResponse(&bank)

		var body UpdateBankRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.Name != nil {
			bank.Name = *body.Name
		}
		if body.Code != nil {
			bank.Code = strings.TrimSpace(strings.ToUpper(*body.Code))
		}
		if body.IsActive != nil {
			bank.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&bank).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "No se pudo actualizar el banco")
		}

		userID, userName := actingUser(c)
		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "bank",
			EntityID:    bank.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Banco actualizado: %s", bank.Name),
			Before:      before,
			After:       toBankResponse(&bank),
		}); logErr != nil {
			fmt.Printf("No se pudo escribir el log de auditoría: %v\n", logErr)
		}

		return c.JSON(toBankResponse(&bank))
	}
}

// -------------------------------------------------
// DELETE /api/admin/banks/:id
// Si el banco tiene transacciones solo se desactiva, nunca se borra
// -------------------------------------------------
func DeleteBankHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bankID, err := c.ParamsInt("id")
		if err != nil || bankID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID de banco inválido")
		}

		var bank models.Bank
		if err := database.DB.First(&bank, bankID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Banco no encontrado")
		}

		var refCount int64
		database.DB.Model(&models.Transaction{}).Where("bank_id = ?", bank.ID).Count(&refCount)

		userID, userName := actingUser(c)

		if refCount > 0 {
			bank.IsActive = false
			if err := database.DB.Save(&bank).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo desactivar el banco")
			}

			if logErr := audit.WriteLog(database.DB, audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "bank",
				EntityID:    bank.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Banco desactivado (tiene %d transacciones): %s", refCount, bank.Name),
			}); logErr != nil {
				fmt.Printf("No se pudo escribir el log de auditoría: %v\n", logErr)
			}

			return c.JSON(fiber.Map{"message": "El banco tiene transacciones asociadas, se desactivó en lugar de borrarse"})
		}

		if err := database.DB.Delete(&bank).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo borrar el banco")
		}

		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "bank",
			EntityID:    bank.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Banco borrado: %s", bank.Name),
			Before:      toBankResponse(&bank),
		}); logErr != nil {
			fmt.Printf("No se pudo escribir el log de auditoría: %v\n", logErr)
		}

		return c.JSON(fiber.Map{"message": "Banco borrado"})
	}
}
