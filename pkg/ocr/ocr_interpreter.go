package ocr

import (
	"regexp"
	"strconv"
	"strings"
)

type Candidate struct {
	RawDesc      string
	Qty          float64
	PriceTotal   *float64
	UnitPrice    *float64
	UnitPriceUOM string
	SizeValue    *float64
	SizeUOM      string

	ConfidenceDesc  float64
	ConfidencePrice float64
}

var (
	// "1,99 €" / "12.50€" / "3 EUR"
	pricePattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d{1,2})?)\s*(?:€|eur)`)
	// "1,09 €/kg", "0,45 €/100g"
	unitPricePattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d{1,2})?)\s*€\s*/\s*(100g|kg|ml|cl|l|g)`)
	// "500g", "1.5 l", "33 cl"
	sizePattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|ml|cl|g|l)\b`)
)

// ParseFragments turns raw recognizer output into candidate line items. The
// stage is total: a fragment that matches nothing still yields a candidate
// with its trimmed text and zero confidences, so nothing is dropped silently
// here. Filtering is the orchestrator's job.
func ParseFragments(fragments []Fragment) []Candidate {
	candidates := make([]Candidate, 0, len(fragments))
	for _, fragment := range fragments {
		candidates = append(candidates, parseFragment(fragment))
	}
	return candidates
}

func parseFragment(fragment Fragment) Candidate {
	candidate := Candidate{
		RawDesc:        strings.TrimSpace(fragment.Text),
		Qty:            1.0,
		ConfidenceDesc: fragment.Confidence,
	}

	text := fragment.Text

	if match := unitPricePattern.FindStringSubmatch(text); match != nil {
		if value, err := parseDecimal(match[1]); err == nil {
			candidate.UnitPrice = &value
			candidate.UnitPriceUOM = "€/" + strings.ToLower(match[2])
		}
		// Strip the unit-price token so the plain price pattern does not
		// pick up the same digits as the line total.
		text = unitPricePattern.ReplaceAllString(text, "")
	}

	if match := pricePattern.FindStringSubmatch(text); match != nil {
		if value, err := parseDecimal(match[1]); err == nil {
			candidate.PriceTotal = &value
			// Pattern-match certainty, deliberately separate from the OCR
			// text confidence.
			candidate.ConfidencePrice = 1.0
		}
	}

	if match := sizePattern.FindStringSubmatch(text); match != nil {
		if value, err := parseDecimal(match[1]); err == nil {
			candidate.SizeValue = &value
			candidate.SizeUOM = strings.ToLower(match[2])
		}
	}

	if candidate.UnitPrice == nil {
		deriveUnitPrice(&candidate)
	}

	return candidate
}

// deriveUnitPrice computes a unit price from the line total and the printed
// package size when the receipt does not print one itself.
func deriveUnitPrice(candidate *Candidate) {
	if candidate.PriceTotal == nil || candidate.SizeValue == nil || *candidate.SizeValue <= 0 {
		return
	}

	price := *candidate.PriceTotal
	size := *candidate.SizeValue

	var value float64
	var uom string
	switch candidate.SizeUOM {
	case "g":
		value = price / (size / 100)
		uom = "€/100g"
	case "kg":
		value = price / size
		uom = "€/kg"
	case "ml":
		value = price / size
		uom = "€/ml"
	case "cl":
		value = price / (size / 100)
		uom = "€/L"
	case "l":
		value = price / size
		uom = "€/L"
	default:
		return
	}

	candidate.UnitPrice = &value
	candidate.UnitPriceUOM = uom
}

func parseDecimal(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}
