package pricing

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"offerta-backend/domain"
	"offerta-backend/internal/utils/logger"
)

type (
	// Config carries the decision-engine tuning knobs. It is passed into the
	// constructor explicitly; there is no process-wide ambient state.
	Config struct {
		HistoryWindowDays int
		AverageWindowDays int
		TolerancePercent  float64
	}

	DecisionEngine interface {
		// Decide classifies an observed unit price against the user's own
		// price history. It is total: every input yields exactly one of
		// good, average, bad or unknown.
		Decide(ctx context.Context, userID uuid.UUID, productID *uuid.UUID, unitPrice *float64, unitPriceUOM string) (string, []string)
		LastPrice(ctx context.Context, userID, productID uuid.UUID) (*float64, error)
		AveragePrice(ctx context.Context, userID, productID uuid.UUID) (*float64, error)
	}

	decisionEngine struct {
		pricingRepository PricingRepository
		config            Config
		log               *logger.Logger
	}
)

func DefaultConfig() Config {
	return Config{
		HistoryWindowDays: 270,
		AverageWindowDays: 180,
		TolerancePercent:  5.0,
	}
}

func NewDecisionEngine(pricingRepository PricingRepository, config Config, log *logger.Logger) DecisionEngine {
	if config.HistoryWindowDays <= 0 {
		config.HistoryWindowDays = DefaultConfig().HistoryWindowDays
	}
	if config.AverageWindowDays <= 0 {
		config.AverageWindowDays = DefaultConfig().AverageWindowDays
	}
	if config.TolerancePercent <= 0 {
		config.TolerancePercent = DefaultConfig().TolerancePercent
	}
	return &decisionEngine{
		pricingRepository: pricingRepository,
		config:            config,
		log:               log.With("component", "DecisionEngine"),
	}
}

func (e *decisionEngine) Decide(ctx context.Context, userID uuid.UUID, productID *uuid.UUID, unitPrice *float64, unitPriceUOM string) (string, []string) {
	if productID == nil || unitPrice == nil || *unitPrice <= 0 {
		return domain.DecisionUnknown, []string{domain.ReasonInsufficientData}
	}

	since := time.Now().AddDate(0, 0, -e.config.HistoryWindowDays)
	events, err := e.pricingRepository.GetPriceEventsSince(ctx, userID, *productID, since)
	if err != nil {
		e.log.Error("price history lookup failed",
			"user_id", userID,
			"product_id", *productID,
			"error", err,
		)
		return domain.DecisionUnknown, []string{domain.ReasonInsufficientData}
	}

	if len(events) == 0 {
		return domain.DecisionUnknown, []string{domain.ReasonNoHistoricalData}
	}

	prices := make([]float64, 0, len(events))
	for _, event := range events {
		prices = append(prices, event.PricePer100gOrL)
	}
	sort.Float64s(prices)

	p20 := percentile(prices, 0.2)
	p50 := percentile(prices, 0.5)

	observed, normalized := NormalizeUnitPrice(*unitPrice, unitPriceUOM)

	var reasons []string
	if !normalized {
		reasons = append(reasons, fmt.Sprintf("unit %q not recognized, price compared as printed", unitPriceUOM))
	}

	// Fixed evaluation order: good wins over average wins over bad.
	switch {
	case observed < p20:
		reasons = append(reasons, fmt.Sprintf("great price, below your usual 20th percentile (€%.2f)", p20))
		return domain.DecisionGood, reasons
	case p50 == 0:
		// Comparing against a zero median would divide by zero; surface the
		// ambiguity instead of guessing.
		reasons = append(reasons, domain.ReasonAmbiguousComparison)
		return domain.DecisionUnknown, reasons
	case math.Abs(observed-p50)/p50 <= e.config.TolerancePercent/100:
		reasons = append(reasons, fmt.Sprintf("normal price (€%.2f ±%.0f%%)", p50, e.config.TolerancePercent))
		return domain.DecisionAverage, reasons
	default:
		reasons = append(reasons, fmt.Sprintf("expensive compared to your usual price (€%.2f)", p50))
		return domain.DecisionBad, reasons
	}
}

func (e *decisionEngine) LastPrice(ctx context.Context, userID, productID uuid.UUID) (*float64, error) {
	event, err := e.pricingRepository.GetLatestPriceEvent(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, nil
	}
	price := event.PricePer100gOrL
	return &price, nil
}

func (e *decisionEngine) AveragePrice(ctx context.Context, userID, productID uuid.UUID) (*float64, error) {
	since := time.Now().AddDate(0, 0, -e.config.AverageWindowDays)
	return e.pricingRepository.GetAveragePriceSince(ctx, userID, productID, since)
}

// percentile uses nearest-rank indexing: the value at sorted position
// floor(n*q), clamped to the valid range.
func percentile(sorted []float64, q float64) float64 {
	idx := int(math.Floor(float64(len(sorted)) * q))
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}
