package admin

import (
	"fmt"
	"strings"

	"caja-backend/internal/audit"
	"caja-backend/internal/database"
	"caja-backend/internal/models"
	"caja-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateEntityRequest struct {
	Name        string            `json:"name" validate:"required,max=100"`
	EntityType  models.EntityType `json:"entity_type" validate:"omitempty,oneof=bank payment_platform cash other"`
	Code        string            `json:"code" validate:"required,max=20"`
	Description string            `json:"description" validate:"max=255"`
}

type UpdateEntityRequest struct {
	Name        *string            `json:"name"`
	EntityType  *models.EntityType `json:"entity_type"`
	Code        *string            `json:"code"`
	Description *string            `json:"description"`
	IsActive    *bool              `json:"is_active"`
}

type EntityResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	EntityType  models.EntityType `json:"entity_type"`
	Code        string            `json:"code"`
	Description string            `json:"description"`
	IsActive    bool              `json:"is_active"`
}

func toEntityResponse(e *models.Entity) EntityResponse {
	return EntityResponse{
		ID:          e.ID,
		Name:        e.Name,
		EntityType:  e.EntityType,
		Code:        e.Code,
		Description: e.Description,
		IsActive:    e.IsActive,
	}
}

// -------------------------------------------------
// POST /api/admin/entities
// -------------------------------------------------
func CreateEntityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEntityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		body.Code = strings.TrimSpace(strings.ToUpper(body.Code))
		if err := validation.Struct(body); err != nil {
			return err
		}
		if body.EntityType == "" {
			body.EntityType = models.EntityTypeOther
		}

		entity := models.Entity{
			Name:        body.Name,
			EntityType:  body.EntityType,
			Code:        body.Code,
			Description: body.Description,
			IsActive:    true,
		}
		if err := database.DB.Create(&entity).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Ya existe una entidad con ese código")
		}

		userID, userName := actingUser(c)
		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "entity",
			EntityID:    entity.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Entidad creada: %s (%s)", entity.Name, entity.Code),
			After:       toEntityResponse(&entity),
		}); logErr != nil {
			fmt.Printf("No se pudo escribir el log de auditoría: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(toEntityResponse(&entity))
	}
}

// -------------------------------------------------
// GET /api/admin/entities?active=true
// -------------------------------------------------
func ListEntitiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Entity{})
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}
		if et := c.Query("entity_type"); et != "" {
			dbq = dbq.Where("entity_type = ?", et)
		}

		var entities []models.Entity
		if err := dbq.Order("name asc").Find(&entities).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las entidades")
		}

		resp := make([]EntityResponse, 0, len(entities))
		for i := range entities {
			resp = append(resp, toEntityResponse(&entities[i]))
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// PUT /api/admin/entities/:id
// -------------------------------------------------
func UpdateEntityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityID, err := c.ParamsInt("id")
		if err != nil || entityID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID de entidad inválido")
		}

		var entity models.Entity
		if err := database.DB.First(&entity, entityID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Entidad no encontrada")
		}
		before := toEntityResponse(&entity)

		var body UpdateEntityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.Name != nil {
			entity.Name = *body.Name
		}
		if body.EntityType != nil {
			entity.EntityType = *body.EntityType
		}
		if body.Code != nil {
			entity.Code = strings.TrimSpace(strings.ToUpper(*body.Code))
		}
		if body.Description != nil {
			entity.Description = *body.Description
		}
		if body.IsActive != nil {
			entity.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&entity).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "No se pudo actualizar la entidad")
		}

		userID, userName := actingUser(c)
		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "entity",
			EntityID:    entity.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Entidad actualizada: %s", entity.Name),
			Before:      before,
			After:       toEntityResponse(&entity),
		}); logErr != nil {
			fmt.Printf("No se pudo escribir el log de auditoría: %v\n", logErr)
		}

		return c.JSON(toEntityResponse(&entity))
	}
}

// -------------------------------------------------
// DELETE /api/admin/entities/:id
// Igual que los bancos: con transacciones asociadas solo se desactiva
// -------------------------------------------------
func DeleteEntityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityID, err := c.ParamsInt("id")
		if err != nil || entityID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID de entidad inválido")
		}

		var entity models.Entity
		if err := database.DB.First(&entity, entityID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Entidad no encontrada")
		}

		var refCount int64
		database.DB.Model(&models.Transaction{}).Where("entity_id = ?", entity.ID).Count(&refCount)

		userID, userName := actingUser(c)

		if refCount > 0 {
			entity.IsActive = false
			if err := database.DB.Save(&entity).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo desactivar la entidad")
			}

			if logErr := audit.WriteLog(database.DB, audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "entity",
				EntityID:    entity.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Entidad desactivada (tiene %d transacciones): %s", refCount, entity.Name),
			}); logErr != nil {
				fmt.Printf("No se pudo escribir el log de auditoría: %v\n", logErr)
			}

			return c.JSON(fiber.Map{"message": "La entidad tiene transacciones asociadas, se desactivó en lugar de borrarse"})
		}

		if err := database.DB.Delete(&entity).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo borrar la entidad")
		}

		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "entity",
			EntityID:    entity.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Entidad borrada: %s", entity.Name),
			Before:      toEntityResponse(&entity),
		}); logErr != nil {
			fmt.Printf("No se pudo escribir el log de auditoría: %v\n", logErr)
		}

		return c.JSON(fiber.Map{"message": "Entidad borrada"})
	}
}
