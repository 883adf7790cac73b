package pricing

import (
	"context"
	"fmt"

	"offerta-backend/domain"
	"offerta-backend/pkg/product"
)

type (
	// OfferService answers the barcode offer check: "is this shelf price a
	// good deal for me?". It reuses the decision engine against the caller's
	// own price history.
	OfferService interface {
		CheckOffer(ctx context.Context, userID string, ean string, price, size float64, uom string) (domain.OfferCheckResponse, error)
	}

	offerService struct {
		productRepository product.ProductRepository
		decisionEngine    DecisionEngine
	}
)

func NewOfferService(productRepository product.ProductRepository, decisionEngine DecisionEngine) OfferService {
	return &offerService{
		productRepository: productRepository,
		decisionEngine:    decisionEngine,
	}
}

func (s *offerService) CheckOffer(ctx context.Context, userID string, ean string, price, size float64, uom string) (domain.OfferCheckResponse, error) {
	if size <= 0 {
		return domain.OfferCheckResponse{}, domain.ErrInvalidSize
	}

	matched, err := s.productRepository.FindByEAN(ctx, ean)
	if err != nil {
		return domain.OfferCheckResponse{}, err
	}
	if matched == nil {
		return domain.OfferCheckResponse{
			Decision: domain.DecisionUnknown,
			Reasons:  []string{"product not recognized"},
		}, nil
	}

	userUUID, err := parseUserID(userID)
	if err != nil {
		return domain.OfferCheckResponse{}, err
	}

	unitPrice := price / size
	unitPriceUOM := fmt.Sprintf("€/%s", uom)

	productID := matched.ID
	decision, reasons := s.decisionEngine.Decide(ctx, userUUID, &productID, &unitPrice, unitPriceUOM)

	productIDStr := matched.ID.String()
	return domain.OfferCheckResponse{
		ProductID:    &productIDStr,
		UnitPrice:    &unitPrice,
		UnitPriceUOM: unitPriceUOM,
		Decision:     decision,
		Reasons:      reasons,
	}, nil
}
