package config

import (
	"offerta-backend/internal/api/handlers"
	"offerta-backend/internal/api/routes"
	"offerta-backend/internal/middleware"
	"offerta-backend/internal/utils"
	appLogger "offerta-backend/internal/utils/logger"
	"offerta-backend/internal/utils/mailing"
	"offerta-backend/internal/utils/storage"
	"offerta-backend/pkg/jwt"
	"offerta-backend/pkg/pricing"
	"offerta-backend/pkg/product"
	"offerta-backend/pkg/queue"
	"offerta-backend/pkg/receipt"
	"offerta-backend/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB, appLog *appLogger.Logger) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Europe/Rome",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	jobQueue := queue.NewJobQueue(
		utils.GetConfig("REDIS_ADDR"),
		utils.GetConfig("REDIS_PASSWORD"),
		utils.GetConfig("REDIS_QUEUE"),
	)

	// Repository
	userRepository := user.NewUserRepository(db)
	receiptRepository := receipt.NewReceiptRepository(db)
	productRepository := product.NewProductRepository(db)
	pricingRepository := pricing.NewPricingRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, mailing.SendMail)
	decisionEngine := pricing.NewDecisionEngine(pricingRepository, pricing.Config{
		HistoryWindowDays: utils.GetConfigInt("PRICE_HISTORY_DAYS", 270),
		AverageWindowDays: utils.GetConfigInt("PRICE_AVERAGE_DAYS", 180),
		TolerancePercent:  utils.GetConfigFloat("PRICE_TOLERANCE_PERCENT", 5.0),
	}, appLog)
	receiptService := receipt.NewReceiptService(receiptRepository, decisionEngine, s3, jobQueue)
	offerService := pricing.NewOfferService(productRepository, decisionEngine)
	productService := product.NewProductService(productRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	receiptHandler := handlers.NewReceiptHandler(receiptService, validator)
	offerHandler := handlers.NewOfferHandler(offerService)
	productHandler := handlers.NewProductHandler(productService, validator)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		ReceiptHandler: receiptHandler,
		OfferHandler:   offerHandler,
		ProductHandler: productHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
