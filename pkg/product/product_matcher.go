package product

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var eanPattern = regexp.MustCompile(`\b\d{13}\b`)

type (
	// ProductMatcher resolves a raw receipt description to a catalog product.
	// False negatives are safe (the item is simply not compared); false
	// positives poison the price history, so the lookup order is
	// most-specific-first: EAN, then alias pattern, then name substring.
	ProductMatcher interface {
		Match(ctx context.Context, description string) (*uuid.UUID, error)
	}

	productMatcher struct {
		productRepository ProductRepository
	}
)

func NewProductMatcher(productRepository ProductRepository) ProductMatcher {
	return &productMatcher{productRepository: productRepository}
}

func (m *productMatcher) Match(ctx context.Context, description string) (*uuid.UUID, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, nil
	}

	if ean := eanPattern.FindString(description); ean != "" {
		product, err := m.productRepository.FindByEAN(ctx, ean)
		if err != nil {
			return nil, err
		}
		if product != nil {
			id := product.ID
			return &id, nil
		}
	}

	alias, err := m.productRepository.FindAliasByDescription(ctx, description)
	if err != nil {
		return nil, err
	}
	if alias != nil {
		id := alias.ProductID
		return &id, nil
	}

	product, err := m.productRepository.FindByNameSubstring(ctx, description)
	if err != nil {
		return nil, err
	}
	if product != nil {
		id := product.ID
		return &id, nil
	}

	return nil, nil
}
