package main

import (
	"log"
	"offerta-backend/cmd/config"
	migration "offerta-backend/cmd/database/migrate"
	"offerta-backend/internal/utils"
	"offerta-backend/internal/utils/logger"
)

func main() {
	utils.LoadConfig()

	appLog, err := logger.New(utils.GetConfig("APP_ENV"))
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	db, err := config.ConnectDB()
	if err != nil {
		appLog.Fatal("failed connecting to database", "error", err)
	}

	if err := migration.Migrate(db); err != nil {
		appLog.Fatal("failed migrating database", "error", err)
	}

	app, err := config.NewApp(db, appLog)
	if err != nil {
		appLog.Fatal("failed setting up app", "error", err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		appLog.Fatal("server stopped", "error", err)
	}
}
