package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUnitPrice(t *testing.T) {
	tests := []struct {
		name       string
		unitPrice  float64
		uom        string
		want       float64
		normalized bool
	}{
		{name: "per 100g is identity", unitPrice: 0.45, uom: "€/100g", want: 0.45, normalized: true},
		{name: "per kg divides by ten", unitPrice: 4.5, uom: "€/kg", want: 0.45, normalized: true},
		{name: "per ml scales to liter", unitPrice: 0.002, uom: "€/ml", want: 2.0, normalized: true},
		{name: "per liter is identity", unitPrice: 1.2, uom: "€/l", want: 1.2, normalized: true},
		{name: "uppercase liter", unitPrice: 1.2, uom: "€/L", want: 1.2, normalized: true},
		{name: "cl passes through unnormalized", unitPrice: 0.3, uom: "€/cl", want: 0.3, normalized: false},
		{name: "unknown unit passes through", unitPrice: 2.5, uom: "€/pezzo", want: 2.5, normalized: false},
		{name: "empty unit passes through", unitPrice: 2.5, uom: "", want: 2.5, normalized: false},
		{name: "whitespace is trimmed", unitPrice: 4.5, uom: "  €/kg ", want: 0.45, normalized: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, normalized := NormalizeUnitPrice(tt.unitPrice, tt.uom)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.normalized, normalized)
		})
	}
}

func TestNormalizeUnitPriceMassUnitsAgree(t *testing.T) {
	// The same shelf price printed per kg and per 100g must land on the same
	// comparison value.
	perKg, okKg := NormalizeUnitPrice(12.40, "€/kg")
	per100g, ok100g := NormalizeUnitPrice(1.24, "€/100g")

	assert.True(t, okKg)
	assert.True(t, ok100g)
	assert.True(t, math.Abs(perKg-per100g) < 1e-9)
}

func TestCanonicalUOM(t *testing.T) {
	assert.Equal(t, UOMPerL, CanonicalUOM("ml"))
	assert.Equal(t, UOMPerL, CanonicalUOM("cl"))
	assert.Equal(t, UOMPerL, CanonicalUOM("L"))
	assert.Equal(t, UOMPer100g, CanonicalUOM("g"))
	assert.Equal(t, UOMPer100g, CanonicalUOM("kg"))
	assert.Equal(t, UOMPer100g, CanonicalUOM(""))
}
