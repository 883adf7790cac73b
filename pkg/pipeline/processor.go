package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"offerta-backend/domain"
	"offerta-backend/entities"
	"offerta-backend/internal/utils/logger"
	"offerta-backend/internal/utils/storage"
	"offerta-backend/pkg/ocr"
	"offerta-backend/pkg/pricing"
	"offerta-backend/pkg/product"
	"offerta-backend/pkg/receipt"
)

type (
	Config struct {
		// Candidates below this description confidence are dropped here, not
		// in the interpreter, so the parse stage stays total and auditable.
		ConfidenceThreshold float64
	}

	// Processor owns the per-receipt state machine
	// queued → processing → {ready | failed}. It is the only component with
	// failure policy; everything it calls either succeeds, is contained per
	// fragment, or flips the receipt to failed.
	Processor interface {
		// ProcessReceipt drives one receipt to a terminal state. A nil return
		// means a terminal state was reached (or the job was a no-op) and the
		// queue message may be acknowledged. A non-nil return means the
		// attempt could not record an outcome and the message must stay
		// in-flight.
		ProcessReceipt(ctx context.Context, receiptID, fileKey string) error
	}

	processor struct {
		receiptRepository receipt.ReceiptRepository
		productMatcher    product.ProductMatcher
		ocrClient         ocr.Client
		s3                storage.AwsS3
		config            Config
		log               *logger.Logger
	}
)

func DefaultConfig() Config {
	return Config{ConfidenceThreshold: 0.5}
}

func NewProcessor(
	receiptRepository receipt.ReceiptRepository,
	productMatcher product.ProductMatcher,
	ocrClient ocr.Client,
	s3 storage.AwsS3,
	config Config,
	log *logger.Logger,
) Processor {
	if config.ConfidenceThreshold <= 0 {
		config.ConfidenceThreshold = DefaultConfig().ConfidenceThreshold
	}
	return &processor{
		receiptRepository: receiptRepository,
		productMatcher:    productMatcher,
		ocrClient:         ocrClient,
		s3:                s3,
		config:            config,
		log:               log.With("component", "ReceiptProcessor"),
	}
}

func (p *processor) ProcessReceipt(ctx context.Context, receiptID, fileKey string) error {
	rec, err := p.receiptRepository.GetReceiptByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to flip to failed; drop the job.
			p.log.Warn("receipt for queued job does not exist", "receipt_id", receiptID)
			return nil
		}
		return err
	}

	// queued→processing is committed before any external call, so a crash
	// past this point shows up as "stuck in processing", never as a receipt
	// silently queued forever.
	claimed, err := p.receiptRepository.ClaimForProcessing(ctx, receiptID)
	if err != nil {
		return err
	}
	if !claimed {
		switch rec.Status {
		case entities.ReceiptStatusReady:
			// Redelivery of an already processed receipt is a no-op.
			p.log.Info("receipt already processed, skipping", "receipt_id", receiptID)
		case entities.ReceiptStatusProcessing:
			p.log.Info("receipt claimed by another worker, skipping", "receipt_id", receiptID)
		case entities.ReceiptStatusFailed:
			p.log.Info("receipt failed previously, waiting for explicit resubmission", "receipt_id", receiptID)
		}
		return nil
	}

	imageData, err := p.s3.FetchFile(ctx, fileKey)
	if err != nil {
		cause := fmt.Sprintf("storage fetch failed: %v", err)
		if errors.Is(err, storage.ErrObjectNotFound) {
			cause = domain.ErrReceiptImageMissing.Error()
		}
		return p.fail(ctx, receiptID, cause)
	}

	fragments, err := p.ocrClient.Recognize(ctx, imageData)
	if err != nil {
		return p.fail(ctx, receiptID, fmt.Sprintf("recognition failed: %v", err))
	}

	candidates := ocr.ParseFragments(fragments)

	lineItems, priceEvents, summary := p.buildResults(ctx, rec, candidates)

	rec.OcrConfidence = &summary.confidence
	if summary.total > 0 {
		rec.TotalAmount = &summary.total
	}
	if rec.Currency == "" {
		rec.Currency = "EUR"
	}

	if err := p.receiptRepository.SaveProcessingResults(ctx, rec, lineItems, priceEvents); err != nil {
		return p.fail(ctx, receiptID, fmt.Sprintf("persisting results failed: %v", err))
	}

	p.log.Info("receipt processed",
		"receipt_id", receiptID,
		"line_items", len(lineItems),
		"price_events", len(priceEvents),
	)
	return nil
}

type resultSummary struct {
	confidence float64
	total      float64
}

func (p *processor) buildResults(ctx context.Context, rec *entities.Receipt, candidates []ocr.Candidate) ([]*entities.LineItem, []*entities.PriceEvent, resultSummary) {
	var (
		lineItems   []*entities.LineItem
		priceEvents []*entities.PriceEvent
		summary     resultSummary
	)

	observedAt := time.Now()
	if rec.PurchasedAt != nil {
		observedAt = *rec.PurchasedAt
	}

	kept := 0
	for _, candidate := range candidates {
		if candidate.RawDesc == "" || candidate.ConfidenceDesc < p.config.ConfidenceThreshold {
			continue
		}
		kept++
		summary.confidence += candidate.ConfidenceDesc

		item := &entities.LineItem{
			ReceiptID:       rec.ID,
			RawDesc:         candidate.RawDesc,
			Qty:             candidate.Qty,
			UnitPrice:       candidate.UnitPrice,
			UnitPriceUOM:    candidate.UnitPriceUOM,
			SizeValue:       candidate.SizeValue,
			SizeUOM:         candidate.SizeUOM,
			ConfidenceDesc:  candidate.ConfidenceDesc,
			ConfidencePrice: candidate.ConfidencePrice,
		}
		if candidate.PriceTotal != nil {
			item.PriceTotal = *candidate.PriceTotal
			summary.total += *candidate.PriceTotal
		}

		// Matching failures are contained per fragment: the item is kept
		// unmatched rather than failing the receipt.
		productID, err := p.productMatcher.Match(ctx, candidate.RawDesc)
		if err != nil {
			p.log.Warn("product match failed",
				"receipt_id", rec.ID,
				"raw_desc", candidate.RawDesc,
				"error", err,
			)
		}
		item.ProductID = productID
		lineItems = append(lineItems, item)

		// At most one price event per line item, and only with a resolved
		// product and a positive unit price.
		if productID == nil || item.UnitPrice == nil || *item.UnitPrice <= 0 {
			continue
		}

		uom := eventUOM(item)
		canonical, normalized := pricing.NormalizeUnitPrice(*item.UnitPrice, uom)

		priceEvents = append(priceEvents, &entities.PriceEvent{
			UserID:          rec.UserID,
			ProductID:       *productID,
			StoreID:         rec.StoreID,
			UnitPrice:       *item.UnitPrice,
			UnitPriceUOM:    uom,
			PricePer100gOrL: canonical,
			Normalized:      normalized,
			Ts:              observedAt,
		})
	}

	if kept > 0 {
		summary.confidence /= float64(kept)
	}
	return lineItems, priceEvents, summary
}

// eventUOM picks the comparison unit tag for a price event. Items without a
// printed unit fall back to the canonical basis of their package unit, so a
// volume-sized item lands in €/L history rather than €/100g.
func eventUOM(item *entities.LineItem) string {
	if item.UnitPriceUOM != "" {
		return item.UnitPriceUOM
	}
	return pricing.CanonicalUOM(item.SizeUOM)
}

// fail records the processing→failed transition. The cause stays
// operator-only; users see the generic failed status.
func (p *processor) fail(ctx context.Context, receiptID, cause string) error {
	p.log.Error("receipt processing failed", "receipt_id", receiptID, "cause", cause)
	if err := p.receiptRepository.MarkFailed(ctx, receiptID, cause); err != nil {
		return err
	}
	return nil
}
