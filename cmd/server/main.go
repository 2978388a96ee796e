package main

import (
	"log"
	"strings"

	"caja-backend/internal/admin"
	"caja-backend/internal/audit"
	"caja-backend/internal/auth"
	"caja-backend/internal/config"
	"caja-backend/internal/dashboard"
	"caja-backend/internal/database"
	"caja-backend/internal/models"
	"caja-backend/internal/register"
	"caja-backend/internal/transaction"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional, en producción todo viene del entorno
	if err := godotenv.Load(); err != nil {
		log.Println("No se encontró archivo .env, usando variables de entorno")
	}

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Error inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error inesperado del servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Auth pública
	api.Post("/auth/signup", auth.SignupHandler())
	api.Post("/auth/register-admin", auth.RegisterAdminHandler())
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Rutas protegidas
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Caja registradora
	protected.Post("/registers/open", register.OpenRegisterHandler())
	protected.Get("/registers/current", register.CurrentRegisterHandler())
	protected.Get("/registers/current/summary", register.ShiftSummaryHandler())
	protected.Post("/registers/:id/close", register.CloseRegisterHandler())
	protected.Get("/reports/:id", register.GetReportHandler())

	// Transacciones
	protected.Post("/transactions", transaction.CreateTransactionHandler())
	protected.Get("/transactions", transaction.ListTransactionsHandler())

	// Dashboard del operador
	protected.Get("/dashboard", dashboard.DashboardHandler())

	// Catálogos de referencia (lectura para cualquier usuario autenticado)
	protected.Get("/banks", admin.ListBanksHandler())
	protected.Get("/entities", admin.ListEntitiesHandler())

	// Rutas de administración
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/banks", admin.CreateBankHandler())
	adminRoutes.Get("/banks", admin.ListBanksHandler())
	adminRoutes.Put("/banks/:id", admin.UpdateBankHandler())
	adminRoutes.Delete("/banks/:id", admin.DeleteBankHandler())

	adminRoutes.Post("/entities", admin.CreateEntityHandler())
	adminRoutes.Get("/entities", admin.ListEntitiesHandler())
	adminRoutes.Put("/entities/:id", admin.UpdateEntityHandler())
	adminRoutes.Delete("/entities/:id", admin.DeleteEntityHandler())

	adminRoutes.Get("/reports", admin.ListReportsHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Servidor escuchando en el puerto:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
