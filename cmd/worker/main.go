package main

import (
	"context"
	"log"
	"offerta-backend/cmd/config"
	"offerta-backend/internal/utils"
	"offerta-backend/internal/utils/logger"
	"offerta-backend/internal/utils/storage"
	"offerta-backend/pkg/ocr"
	"offerta-backend/pkg/pipeline"
	"offerta-backend/pkg/product"
	"offerta-backend/pkg/queue"
	"offerta-backend/pkg/receipt"
	"os/signal"
	"syscall"
	"time"
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

	s3 := storage.NewAwsS3()
	jobQueue := queue.NewJobQueue(
		utils.GetConfig("REDIS_ADDR"),
		utils.GetConfig("REDIS_PASSWORD"),
		utils.GetConfig("REDIS_QUEUE"),
	)

	receiptRepository := receipt.NewReceiptRepository(db)
	productRepository := product.NewProductRepository(db)
	productMatcher := product.NewProductMatcher(productRepository)

	ocrTimeout := time.Duration(utils.GetConfigInt("OCR_TIMEOUT_SECONDS", 30)) * time.Second
	ocrClient := ocr.NewClient(utils.GetConfig("OCR_SERVICE_URL"), ocrTimeout)

	processor := pipeline.NewProcessor(
		receiptRepository,
		productMatcher,
		ocrClient,
		s3,
		pipeline.Config{
			ConfidenceThreshold: utils.GetConfigFloat("OCR_CONFIDENCE_THRESHOLD", 0.5),
		},
		appLog,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := pipeline.NewWorker(
		jobQueue,
		processor,
		utils.GetConfigInt("WORKER_CONCURRENCY", 4),
		appLog,
	)
	worker.Start(ctx)

	<-ctx.Done()
	appLog.Info("shutdown signal received, stopping worker")
}
