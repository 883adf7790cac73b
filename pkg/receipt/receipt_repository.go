package receipt

import (
	"context"

	"gorm.io/gorm"

	"offerta-backend/entities"
)

type (
	ReceiptRepository interface {
		CreateReceipt(ctx context.Context, receipt *entities.Receipt) error
		GetReceiptByID(ctx context.Context, id string) (*entities.Receipt, error)
		GetReceiptWithLineItems(ctx context.Context, id string) (*entities.Receipt, error)

		// ClaimForProcessing is the queued→processing transition. It is a
		// single conditional update that only succeeds when the receipt is
		// still queued, which doubles as the per-receipt processing lock.
		ClaimForProcessing(ctx context.Context, id string) (bool, error)

		// SaveProcessingResults persists line items and price events and
		// flips the receipt to ready in one transaction. Existing line items
		// for the receipt are replaced, so an explicit reprocessing run never
		// duplicates them.
		SaveProcessingResults(ctx context.Context, receipt *entities.Receipt, lineItems []*entities.LineItem, priceEvents []*entities.PriceEvent) error

		MarkFailed(ctx context.Context, id string, cause string) error

		// ResetForReprocessing flips a terminal receipt back to queued.
		// Returns false when the receipt is not in a terminal state.
		ResetForReprocessing(ctx context.Context, id string) (bool, error)
	}

	receiptRepository struct {
		db *gorm.DB
	}
)

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) CreateReceipt(ctx context.Context, receipt *entities.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *receiptRepository) GetReceiptByID(ctx context.Context, id string) (*entities.Receipt, error) {
	var receipt entities.Receipt
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) GetReceiptWithLineItems(ctx context.Context, id string) (*entities.Receipt, error) {
	var receipt entities.Receipt
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("LineItems.Product").
		Where("id = ?", id).
		First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) ClaimForProcessing(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Receipt{}).
		Where("id = ? AND status = ?", id, entities.ReceiptStatusQueued).
		Update("status", entities.ReceiptStatusProcessing)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *receiptRepository) SaveProcessingResults(ctx context.Context, receipt *entities.Receipt, lineItems []*entities.LineItem, priceEvents []*entities.PriceEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", receipt.ID).Delete(&entities.LineItem{}).Error; err != nil {
			return err
		}
		for _, item := range lineItems {
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}
		for _, event := range priceEvents {
			if err := tx.Create(event).Error; err != nil {
				return err
			}
		}

		receipt.Status = entities.ReceiptStatusReady
		receipt.FailureReason = ""
		return tx.Save(receipt).Error
	})
}

func (r *receiptRepository) MarkFailed(ctx context.Context, id string, cause string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Receipt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         entities.ReceiptStatusFailed,
			"failure_reason": cause,
		}).Error
}

func (r *receiptRepository) ResetForReprocessing(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Receipt{}).
		Where("id = ? AND status IN ?", id, []string{entities.ReceiptStatusReady, entities.ReceiptStatusFailed}).
		Updates(map[string]interface{}{
			"status":         entities.ReceiptStatusQueued,
			"failure_reason": "",
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
