package pipeline

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"offerta-backend/entities"
	"offerta-backend/internal/utils/logger"
	"offerta-backend/internal/utils/storage"
	"offerta-backend/pkg/ocr"
	"offerta-backend/pkg/pricing"
)

type fakeReceiptRepository struct {
	receipt *entities.Receipt

	savedReceipt    *entities.Receipt
	savedLineItems  []*entities.LineItem
	savedEvents     []*entities.PriceEvent
	failedCause     string
	claimedStatuses []string
}

func (f *fakeReceiptRepository) CreateReceipt(ctx context.Context, receipt *entities.Receipt) error {
	f.receipt = receipt
	return nil
}

func (f *fakeReceiptRepository) GetReceiptByID(ctx context.Context, id string) (*entities.Receipt, error) {
	if f.receipt == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.receipt, nil
}

func (f *fakeReceiptRepository) GetReceiptWithLineItems(ctx context.Context, id string) (*entities.Receipt, error) {
	return f.GetReceiptByID(ctx, id)
}

func (f *fakeReceiptRepository) ClaimForProcessing(ctx context.Context, id string) (bool, error) {
	f.claimedStatuses = append(f.claimedStatuses, f.receipt.Status)
	if f.receipt.Status != entities.ReceiptStatusQueued {
		return false, nil
	}
	f.receipt.Status = entities.ReceiptStatusProcessing
	return true, nil
}

func (f *fakeReceiptRepository) SaveProcessingResults(ctx context.Context, receipt *entities.Receipt, lineItems []*entities.LineItem, priceEvents []*entities.PriceEvent) error {
	receipt.Status = entities.ReceiptStatusReady
	f.savedReceipt = receipt
	f.savedLineItems = lineItems
	f.savedEvents = priceEvents
	return nil
}

func (f *fakeReceiptRepository) MarkFailed(ctx context.Context, id string, cause string) error {
	f.receipt.Status = entities.ReceiptStatusFailed
	f.failedCause = cause
	return nil
}

func (f *fakeReceiptRepository) ResetForReprocessing(ctx context.Context, id string) (bool, error) {
	if f.receipt.Status != entities.ReceiptStatusReady && f.receipt.Status != entities.ReceiptStatusFailed {
		return false, nil
	}
	f.receipt.Status = entities.ReceiptStatusQueued
	return true, nil
}

type fakeMatcher struct {
	byDesc map[string]uuid.UUID
}

func (f *fakeMatcher) Match(ctx context.Context, description string) (*uuid.UUID, error) {
	if id, ok := f.byDesc[description]; ok {
		return &id, nil
	}
	return nil, nil
}

type fakeOCRClient struct {
	fragments []ocr.Fragment
	err       error
	calls     int
}

func (f *fakeOCRClient) Recognize(ctx context.Context, imageData []byte) ([]ocr.Fragment, error) {
	f.calls++
	return f.fragments, f.err
}

type fakeStorage struct {
	objects map[string][]byte
}

func (f *fakeStorage) UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error) {
	return dir + "/" + fileName, nil
}

func (f *fakeStorage) UploadBytes(ctx context.Context, key string, data []byte, contentType string) error {
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) FetchFile(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (f *fakeStorage) DeleteFile(key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) PresignGetURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://example.test/" + key, nil
}

type processorFixture struct {
	repo      *fakeReceiptRepository
	ocrClient *fakeOCRClient
	store     *fakeStorage
	processor Processor
}

func newProcessorFixture(t *testing.T, rec *entities.Receipt, matcher *fakeMatcher, ocrClient *fakeOCRClient) *processorFixture {
	t.Helper()
	log, err := logger.New("dev")
	require.NoError(t, err)

	repo := &fakeReceiptRepository{receipt: rec}
	store := &fakeStorage{objects: map[string][]byte{}}
	if rec != nil {
		store.objects[rec.FileKey] = []byte("fake-image")
	}

	return &processorFixture{
		repo:      repo,
		ocrClient: ocrClient,
		store:     store,
		processor: NewProcessor(repo, matcher, ocrClient, store, DefaultConfig(), log),
	}
}

func queuedReceipt() *entities.Receipt {
	return &entities.Receipt{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		FileKey: "receipts/receipt-1.jpg",
		Status:  entities.ReceiptStatusQueued,
	}
}

func TestProcessReceiptHappyPath(t *testing.T) {
	rec := queuedReceipt()
	pastaID := uuid.New()
	matcher := &fakeMatcher{byDesc: map[string]uuid.UUID{"PASTA 500g 0,89 €": pastaID}}
	ocrClient := &fakeOCRClient{fragments: []ocr.Fragment{
		{Text: "PASTA 500g 0,89 €", Confidence: 0.91},
		{Text: "SACCHETTO 0,10 €", Confidence: 0.87},
	}}
	fx := newProcessorFixture(t, rec, matcher, ocrClient)

	err := fx.processor.ProcessReceipt(context.Background(), rec.ID.String(), rec.FileKey)
	require.NoError(t, err)

	require.NotNil(t, fx.repo.savedReceipt)
	assert.Equal(t, entities.ReceiptStatusReady, fx.repo.savedReceipt.Status)
	require.Len(t, fx.repo.savedLineItems, 2)

	matched := fx.repo.savedLineItems[0]
	require.NotNil(t, matched.ProductID)
	assert.Equal(t, pastaID, *matched.ProductID)

	unmatched := fx.repo.savedLineItems[1]
	assert.Nil(t, unmatched.ProductID)

	// One price event for the matched item only.
	require.Len(t, fx.repo.savedEvents, 1)
	event := fx.repo.savedEvents[0]
	assert.Equal(t, pastaID, event.ProductID)
	assert.Equal(t, rec.UserID, event.UserID)
	assert.InDelta(t, 0.178, event.PricePer100gOrL, 1e-9)
	assert.True(t, event.Normalized)

	require.NotNil(t, fx.repo.savedReceipt.TotalAmount)
	assert.InDelta(t, 0.99, *fx.repo.savedReceipt.TotalAmount, 1e-9)
	require.NotNil(t, fx.repo.savedReceipt.OcrConfidence)
	assert.InDelta(t, 0.89, *fx.repo.savedReceipt.OcrConfidence, 1e-9)
}

func TestProcessReceiptFiltersLowConfidence(t *testing.T) {
	rec := queuedReceipt()
	ocrClient := &fakeOCRClient{fragments: []ocr.Fragment{
		{Text: "PASTA 0,89 €", Confidence: 0.91},
		{Text: "#####", Confidence: 0.12},
	}}
	fx := newProcessorFixture(t, rec, &fakeMatcher{}, ocrClient)

	err := fx.processor.ProcessReceipt(context.Background(), rec.ID.String(), rec.FileKey)
	require.NoError(t, err)

	require.Len(t, fx.repo.savedLineItems, 1)
	assert.Equal(t, "PASTA 0,89 €", fx.repo.savedLineItems[0].RawDesc)
}

func TestProcessReceiptAlreadyReadyIsNoOp(t *testing.T) {
	rec := queuedReceipt()
	rec.Status = entities.ReceiptStatusReady
	ocrClient := &fakeOCRClient{}
	fx := newProcessorFixture(t, rec, &fakeMatcher{}, ocrClient)

	err := fx.processor.ProcessReceipt(context.Background(), rec.ID.String(), rec.FileKey)
	require.NoError(t, err)

	// Redelivery of a processed receipt never re-runs recognition.
	assert.Equal(t, 0, ocrClient.calls)
	assert.Nil(t, fx.repo.savedReceipt)
	assert.Equal(t, entities.ReceiptStatusReady, rec.Status)
}

func TestProcessReceiptFailedAwaitsResubmission(t *testing.T) {
	rec := queuedReceipt()
	rec.Status = entities.ReceiptStatusFailed
	ocrClient := &fakeOCRClient{}
	fx := newProcessorFixture(t, rec, &fakeMatcher{}, ocrClient)

	err := fx.processor.ProcessReceipt(context.Background(), rec.ID.String(), rec.FileKey)
	require.NoError(t, err)
	assert.Equal(t, 0, ocrClient.calls)
	assert.Equal(t, entities.ReceiptStatusFailed, rec.Status)
}

func TestProcessReceiptMissingReceiptDropsJob(t *testing.T) {
	ocrClient := &fakeOCRClient{}
	fx := newProcessorFixture(t, nil, &fakeMatcher{}, ocrClient)

	err := fx.processor.ProcessReceipt(context.Background(), uuid.NewString(), "receipts/gone.jpg")
	require.NoError(t, err)
	assert.Equal(t, 0, ocrClient.calls)
}

func TestProcessReceiptMissingImageFails(t *testing.T) {
	rec := queuedReceipt()
	fx := newProcessorFixture(t, rec, &fakeMatcher{}, &fakeOCRClient{})
	delete(fx.store.objects, rec.FileKey)

	err := fx.processor.ProcessReceipt(context.Background(), rec.ID.String(), rec.FileKey)
	require.NoError(t, err)

	assert.Equal(t, entities.ReceiptStatusFailed, rec.Status)
	assert.Contains(t, fx.repo.failedCause, "image")
}

func TestProcessReceiptRecognitionFailureFails(t *testing.T) {
	rec := queuedReceipt()
	ocrClient := &fakeOCRClient{err: errors.New("service unavailable")}
	fx := newProcessorFixture(t, rec, &fakeMatcher{}, ocrClient)

	err := fx.processor.ProcessReceipt(context.Background(), rec.ID.String(), rec.FileKey)
	require.NoError(t, err)

	assert.Equal(t, entities.ReceiptStatusFailed, rec.Status)
	assert.Contains(t, fx.repo.failedCause, "recognition failed")
	assert.Nil(t, fx.repo.savedReceipt)
}

func TestProcessReceiptEmptyRecognitionStillReady(t *testing.T) {
	rec := queuedReceipt()
	fx := newProcessorFixture(t, rec, &fakeMatcher{}, &fakeOCRClient{})

	err := fx.processor.ProcessReceipt(context.Background(), rec.ID.String(), rec.FileKey)
	require.NoError(t, err)

	require.NotNil(t, fx.repo.savedReceipt)
	assert.Equal(t, entities.ReceiptStatusReady, fx.repo.savedReceipt.Status)
	assert.Empty(t, fx.repo.savedLineItems)
	assert.Empty(t, fx.repo.savedEvents)
}

func TestEventUOM(t *testing.T) {
	printed := &entities.LineItem{UnitPriceUOM: "€/kg", SizeUOM: "ml"}
	assert.Equal(t, "€/kg", eventUOM(printed))

	volumeSized := &entities.LineItem{SizeUOM: "ml"}
	assert.Equal(t, pricing.UOMPerL, eventUOM(volumeSized))

	massSized := &entities.LineItem{SizeUOM: "g"}
	assert.Equal(t, pricing.UOMPer100g, eventUOM(massSized))

	bare := &entities.LineItem{}
	assert.Equal(t, pricing.UOMPer100g, eventUOM(bare))
}

func TestProcessReceiptUsesPurchaseDateForEvents(t *testing.T) {
	rec := queuedReceipt()
	purchased := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rec.PurchasedAt = &purchased

	pastaID := uuid.New()
	matcher := &fakeMatcher{byDesc: map[string]uuid.UUID{"PASTA 500g 0,89 €": pastaID}}
	ocrClient := &fakeOCRClient{fragments: []ocr.Fragment{
		{Text: "PASTA 500g 0,89 €", Confidence: 0.91},
	}}
	fx := newProcessorFixture(t, rec, matcher, ocrClient)

	err := fx.processor.ProcessReceipt(context.Background(), rec.ID.String(), rec.FileKey)
	require.NoError(t, err)

	require.Len(t, fx.repo.savedEvents, 1)
	assert.True(t, fx.repo.savedEvents[0].Ts.Equal(purchased))
}
