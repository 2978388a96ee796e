package database

import (
	"log"

	"caja-backend/internal/config"
	"caja-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("No se pudo conectar a la base de datos: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Error en AutoMigrate: %v", err)
	}

	log.Println("Conexión a la base de datos lista. Migración completada.")
}

// Migrate: también lo usan los tests con sqlite en memoria
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Bank{},
		&models.Entity{},
		&models.CashRegister{},
		&models.Transaction{},
		&models.CashRegisterReport{},
		&models.AuditLog{},
	)
}
