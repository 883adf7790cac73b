package pricing

import (
	"strings"
)

// Canonical comparison units for price history.
const (
	UOMPer100g = "€/100g"
	UOMPerL    = "€/L"
)

// NormalizeUnitPrice converts a printed unit price into the canonical
// comparison basis: €/100g for mass units and €/L for volume units.
// It is pure and total. When the unit tag is not recognized the raw price is
// returned unchanged with normalized=false so callers can tell an
// unnormalized value apart from a properly comparable one.
func NormalizeUnitPrice(unitPrice float64, unitPriceUOM string) (float64, bool) {
	uom := strings.ToLower(strings.TrimSpace(unitPriceUOM))

	switch {
	case strings.Contains(uom, "100g"):
		return unitPrice, true
	case strings.Contains(uom, "kg"):
		return unitPrice / 10, true
	case strings.Contains(uom, "ml"):
		return unitPrice * 1000, true
	case strings.HasSuffix(uom, "cl"):
		// Printed on some receipts but not a comparison basis we normalize.
		return unitPrice, false
	case strings.HasSuffix(uom, "l"):
		return unitPrice, true
	default:
		return unitPrice, false
	}
}

// CanonicalUOM returns the comparison unit tag for a printed size unit.
func CanonicalUOM(sizeUOM string) string {
	switch strings.ToLower(strings.TrimSpace(sizeUOM)) {
	case "ml", "cl", "l":
		return UOMPerL
	default:
		return UOMPer100g
	}
}
