package receipt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"offerta-backend/domain"
	"offerta-backend/entities"
	"offerta-backend/internal/utils/storage"
	"offerta-backend/pkg/pricing"
	"offerta-backend/pkg/queue"
)

type (
	ReceiptService interface {
		UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string) (domain.UploadReceiptResponse, error)
		GetReceipt(ctx context.Context, id string, userID string) (domain.ReceiptStatusResponse, error)
		GetReceiptItems(ctx context.Context, id string, userID string) (domain.ReceiptDetailResponse, error)
		ReprocessReceipt(ctx context.Context, id string, userID string) (domain.UploadReceiptResponse, error)
	}

	receiptService struct {
		receiptRepository ReceiptRepository
		decisionEngine    pricing.DecisionEngine
		s3                storage.AwsS3
		jobQueue          queue.JobQueue
	}
)

func NewReceiptService(receiptRepository ReceiptRepository, decisionEngine pricing.DecisionEngine, s3 storage.AwsS3, jobQueue queue.JobQueue) ReceiptService {
	return &receiptService{
		receiptRepository: receiptRepository,
		decisionEngine:    decisionEngine,
		s3:                s3,
		jobQueue:          jobQueue,
	}
}

func (s *receiptService) UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string) (domain.UploadReceiptResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.UploadReceiptResponse{}, domain.ErrParseUUID
	}

	receiptID := uuid.New()
	fileName := fmt.Sprintf("receipt-%s", receiptID.String())
	objectKey, err := s.s3.UploadFile(fileName, req.ReceiptImage, "receipts", storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return domain.UploadReceiptResponse{}, domain.ErrInvalidImageFormat
		}
		return domain.UploadReceiptResponse{}, err
	}

	newReceipt := &entities.Receipt{
		ID:       receiptID,
		UserID:   userUUID,
		FileKey:  objectKey,
		Status:   entities.ReceiptStatusQueued,
		Currency: "EUR",
	}

	if req.PurchasedAt != "" {
		if purchasedAt, parseErr := time.Parse("2006-01-02", req.PurchasedAt); parseErr == nil {
			newReceipt.PurchasedAt = &purchasedAt
		}
	}

	if err := s.receiptRepository.CreateReceipt(ctx, newReceipt); err != nil {
		_ = s.s3.DeleteFile(objectKey)
		return domain.UploadReceiptResponse{}, err
	}

	job := queue.ReceiptJob{ReceiptID: receiptID.String(), FileKey: objectKey}
	if err := s.jobQueue.Enqueue(ctx, job); err != nil {
		// Leave the receipt visible but terminal so the user can resubmit.
		_ = s.receiptRepository.MarkFailed(ctx, receiptID.String(), fmt.Sprintf("enqueue failed: %v", err))
		return domain.UploadReceiptResponse{}, err
	}

	return domain.UploadReceiptResponse{
		ReceiptID: receiptID.String(),
		FileKey:   objectKey,
		Status:    entities.ReceiptStatusQueued,
	}, nil
}

func (s *receiptService) GetReceipt(ctx context.Context, id string, userID string) (domain.ReceiptStatusResponse, error) {
	rec, err := s.receiptRepository.GetReceiptByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReceiptStatusResponse{}, domain.ErrReceiptNotFound
		}
		return domain.ReceiptStatusResponse{}, err
	}

	if rec.UserID.String() != userID {
		return domain.ReceiptStatusResponse{}, domain.ErrUserNotAllowed
	}

	return domain.ReceiptStatusResponse{
		ID:            rec.ID.String(),
		Status:        rec.Status,
		PurchasedAt:   rec.PurchasedAt,
		OcrConfidence: rec.OcrConfidence,
		TotalAmount:   rec.TotalAmount,
		Currency:      rec.Currency,
		CreatedAt:     rec.CreatedAt,
	}, nil
}

func (s *receiptService) GetReceiptItems(ctx context.Context, id string, userID string) (domain.ReceiptDetailResponse, error) {
	rec, err := s.receiptRepository.GetReceiptWithLineItems(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReceiptDetailResponse{}, domain.ErrReceiptNotFound
		}
		return domain.ReceiptDetailResponse{}, err
	}

	if rec.UserID.String() != userID {
		return domain.ReceiptDetailResponse{}, domain.ErrUserNotAllowed
	}

	items := make([]domain.ReceiptItemResponse, 0, len(rec.LineItems))
	for _, item := range rec.LineItems {
		response := domain.ReceiptItemResponse{
			Name:       item.RawDesc,
			Qty:        item.Qty,
			PriceTotal: item.PriceTotal,
			UnitPrice:  item.UnitPrice,
			SizeValue:  item.SizeValue,
			SizeUOM:    item.SizeUOM,
		}

		if item.Product != nil {
			productID := item.Product.ID.String()
			response.ProductID = &productID
			response.Name = item.Product.NameNorm
			response.Brand = item.Product.Brand
		}

		if item.ProductID != nil {
			if lastPrice, err := s.decisionEngine.LastPrice(ctx, rec.UserID, *item.ProductID); err == nil {
				response.LastPrice = lastPrice
			}
			if avgPrice, err := s.decisionEngine.AveragePrice(ctx, rec.UserID, *item.ProductID); err == nil {
				response.AveragePrice = avgPrice
			}
		}

		decision, reasons := s.decisionEngine.Decide(ctx, rec.UserID, item.ProductID, item.UnitPrice, item.UnitPriceUOM)
		response.Decision = decision
		response.Reasons = reasons

		items = append(items, response)
	}

	return domain.ReceiptDetailResponse{
		ID:     rec.ID.String(),
		Status: rec.Status,
		Items:  items,
	}, nil
}

func (s *receiptService) ReprocessReceipt(ctx context.Context, id string, userID string) (domain.UploadReceiptResponse, error) {
	rec, err := s.receiptRepository.GetReceiptByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UploadReceiptResponse{}, domain.ErrReceiptNotFound
		}
		return domain.UploadReceiptResponse{}, err
	}

	if rec.UserID.String() != userID {
		return domain.UploadReceiptResponse{}, domain.ErrUserNotAllowed
	}

	reset, err := s.receiptRepository.ResetForReprocessing(ctx, id)
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}
	if !reset {
		return domain.UploadReceiptResponse{}, domain.ErrReceiptNotTerminal
	}

	job := queue.ReceiptJob{ReceiptID: rec.ID.String(), FileKey: rec.FileKey}
	if err := s.jobQueue.Enqueue(ctx, job); err != nil {
		_ = s.receiptRepository.MarkFailed(ctx, id, fmt.Sprintf("enqueue failed: %v", err))
		return domain.UploadReceiptResponse{}, err
	}

	return domain.UploadReceiptResponse{
		ReceiptID: rec.ID.String(),
		FileKey:   rec.FileKey,
		Status:    entities.ReceiptStatusQueued,
	}, nil
}
