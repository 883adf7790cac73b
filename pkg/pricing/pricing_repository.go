package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"offerta-backend/entities"
)

type (
	// PricingRepository is the read side of the price history. Events are
	// written by the receipt repository in the same transaction that persists
	// line items, never here.
	PricingRepository interface {
		GetPriceEventsSince(ctx context.Context, userID, productID uuid.UUID, since time.Time) ([]*entities.PriceEvent, error)
		GetLatestPriceEvent(ctx context.Context, userID, productID uuid.UUID) (*entities.PriceEvent, error)
		GetAveragePriceSince(ctx context.Context, userID, productID uuid.UUID, since time.Time) (*float64, error)
	}

	pricingRepository struct {
		db *gorm.DB
	}
)

func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{db: db}
}

func (r *pricingRepository) GetPriceEventsSince(ctx context.Context, userID, productID uuid.UUID, since time.Time) ([]*entities.PriceEvent, error) {
	var events []*entities.PriceEvent
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND ts >= ?", userID, productID, since).
		Order("ts desc").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *pricingRepository) GetLatestPriceEvent(ctx context.Context, userID, productID uuid.UUID) (*entities.PriceEvent, error) {
	var event entities.PriceEvent
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Order("ts desc").
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *pricingRepository) GetAveragePriceSince(ctx context.Context, userID, productID uuid.UUID, since time.Time) (*float64, error) {
	var avg *float64
	if err := r.db.WithContext(ctx).
		Model(&entities.PriceEvent{}).
		Select("AVG(price_per_100g_or_l)").
		Where("user_id = ? AND product_id = ? AND ts >= ?", userID, productID, since).
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	return avg, nil
}
