package domain

import "errors"

// Decision classifications for an observed price against the user's history.
const (
	DecisionGood    = "good"
	DecisionAverage = "average"
	DecisionBad     = "bad"
	DecisionUnknown = "unknown"
)

var (
	ReasonInsufficientData    = "insufficient data"
	ReasonNoHistoricalData    = "no historical data"
	ReasonAmbiguousComparison = "ambiguous comparison: historical median is zero"

	MessageSuccessCheckOffer = "offer checked successfully"
	MessageFailedCheckOffer  = "failed to check offer"

	ErrProductNotFound = errors.New("product not found")
	ErrInvalidSize     = errors.New("size must be positive")
)

type (
	OfferCheckResponse struct {
		ProductID    *string  `json:"product_id,omitempty"`
		UnitPrice    *float64 `json:"unit_price,omitempty"`
		UnitPriceUOM string   `json:"unit_price_uom,omitempty"`
		Decision     string   `json:"decision"`
		Reasons      []string `json:"reasons"`
	}
)
