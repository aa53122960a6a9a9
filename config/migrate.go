package config

import (
	"log"

	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/models"
)

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)

	if err != nil {
		log.Printf("Failed to migrate database schema: %v", err)
		return err
	}

	log.Println("Database migrations completed successfully...")

	// Ensure baseline data exists even on normal migration
	SeedCategories(db)
	SeedAdminUser(db)

	return nil
}

func ResetAndMigrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.OrderItem{},
		&models.Order{},
		&models.Product{},
		&models.Category{},
		&models.User{},
	}

	if err := db.Migrator().DropTable(tables...); err != nil {
		log.Printf("Failed to drop tables: %v", err)
		return err
	}

	log.Println("All tables dropped successfully.")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Printf("Failed to auto migrate: %v", err)
		return err
	}

	SeedCategories(db)
	SeedAdminUser(db)
	SeedProducts(db)

	log.Println("Database reset and migration completed successfully.")
	return nil
}
