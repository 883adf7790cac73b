package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessUploadReceipt    = "receipt uploaded successfully"
	MessageSuccessGetReceipt       = "receipt retrieved successfully"
	MessageSuccessGetReceiptItems  = "receipt items retrieved successfully"
	MessageSuccessReprocessReceipt = "receipt queued for reprocessing"

	MessageFailedUploadReceipt    = "failed to upload receipt"
	MessageFailedGetReceipt       = "failed to retrieve receipt"
	MessageFailedGetReceiptItems  = "failed to retrieve receipt items"
	MessageFailedReprocessReceipt = "failed to reprocess receipt"

	ErrReceiptNotFound     = errors.New("receipt not found")
	ErrReceiptNotTerminal  = errors.New("receipt is not in a terminal state")
	ErrReceiptImageMissing = errors.New("receipt image not found in storage")
	ErrRecognitionFailed   = errors.New("text recognition failed")
	ErrInvalidImageFormat  = errors.New("invalid image format")
)

type (
	UploadReceiptRequest struct {
		ReceiptImage *multipart.FileHeader `json:"receipt_image" form:"receipt_image" validate:"required"`
		PurchasedAt  string                `json:"purchased_at" form:"purchased_at" validate:"omitempty"`
	}

	UploadReceiptResponse struct {
		ReceiptID string `json:"receipt_id"`
		FileKey   string `json:"file_key"`
		Status    string `json:"status"`
	}

	ReceiptStatusResponse struct {
		ID            string     `json:"id"`
		Status        string     `json:"status"`
		PurchasedAt   *time.Time `json:"purchased_at,omitempty"`
		OcrConfidence *float64   `json:"ocr_confidence,omitempty"`
		TotalAmount   *float64   `json:"total_amount,omitempty"`
		Currency      string     `json:"currency"`
		CreatedAt     time.Time  `json:"created_at"`
	}

	ReceiptItemResponse struct {
		ProductID    *string  `json:"product_id,omitempty"`
		Name         string   `json:"name"`
		Brand        string   `json:"brand,omitempty"`
		Qty          float64  `json:"qty"`
		PriceTotal   float64  `json:"price_total"`
		UnitPrice    *float64 `json:"unit_price,omitempty"`
		SizeValue    *float64 `json:"size_value,omitempty"`
		SizeUOM      string   `json:"size_uom,omitempty"`
		LastPrice    *float64 `json:"last_price,omitempty"`
		AveragePrice *float64 `json:"avg_price,omitempty"`
		Decision     string   `json:"decision"`
		Reasons      []string `json:"reasons"`
	}

	ReceiptDetailResponse struct {
		ID     string                `json:"id"`
		Status string                `json:"status"`
		Items  []ReceiptItemResponse `json:"items"`
	}
)
