package migration

import (
	"fmt"
	"log"
	"offerta-backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Store{}); err != nil {
		log.Fatalf("Error migrating store database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Product{}); err != nil {
		log.Fatalf("Error migrating product database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Alias{}); err != nil {
		log.Fatalf("Error migrating alias database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Receipt{}); err != nil {
		log.Fatalf("Error migrating receipt database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.LineItem{}); err != nil {
		log.Fatalf("Error migrating line item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PriceEvent{}); err != nil {
		log.Fatalf("Error migrating price event database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
