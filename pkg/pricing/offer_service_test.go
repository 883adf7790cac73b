package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offerta-backend/domain"
	"offerta-backend/entities"
)

type fakeProductRepository struct {
	byEAN *entities.Product
}

func (f *fakeProductRepository) CreateProduct(ctx context.Context, product *entities.Product) error {
	return nil
}

func (f *fakeProductRepository) CreateAlias(ctx context.Context, alias *entities.Alias) error {
	return nil
}

func (f *fakeProductRepository) GetProductByID(ctx context.Context, id string) (*entities.Product, error) {
	return nil, nil
}

func (f *fakeProductRepository) FindByEAN(ctx context.Context, ean string) (*entities.Product, error) {
	return f.byEAN, nil
}

func (f *fakeProductRepository) FindAliasByDescription(ctx context.Context, description string) (*entities.Alias, error) {
	return nil, nil
}

func (f *fakeProductRepository) FindByNameSubstring(ctx context.Context, description string) (*entities.Product, error) {
	return nil, nil
}

type fakeDecisionEngine struct {
	decision string
	reasons  []string

	gotUnitPrice *float64
	gotUOM       string
}

func (f *fakeDecisionEngine) Decide(ctx context.Context, userID uuid.UUID, productID *uuid.UUID, unitPrice *float64, unitPriceUOM string) (string, []string) {
	f.gotUnitPrice = unitPrice
	f.gotUOM = unitPriceUOM
	return f.decision, f.reasons
}

func (f *fakeDecisionEngine) LastPrice(ctx context.Context, userID, productID uuid.UUID) (*float64, error) {
	return nil, nil
}

func (f *fakeDecisionEngine) AveragePrice(ctx context.Context, userID, productID uuid.UUID) (*float64, error) {
	return nil, nil
}

func TestCheckOfferRejectsNonPositiveSize(t *testing.T) {
	service := NewOfferService(&fakeProductRepository{}, &fakeDecisionEngine{})

	_, err := service.CheckOffer(context.Background(), uuid.NewString(), "8001120000000", 1.99, 0, "100g")
	assert.ErrorIs(t, err, domain.ErrInvalidSize)
}

func TestCheckOfferUnknownProduct(t *testing.T) {
	service := NewOfferService(&fakeProductRepository{}, &fakeDecisionEngine{})

	res, err := service.CheckOffer(context.Background(), uuid.NewString(), "8001120000000", 1.99, 100, "g")
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionUnknown, res.Decision)
	assert.Contains(t, res.Reasons, "product not recognized")
	assert.Nil(t, res.ProductID)
}

func TestCheckOfferComputesUnitPrice(t *testing.T) {
	matched := &entities.Product{ID: uuid.New(), NameNorm: "pasta di semola"}
	engine := &fakeDecisionEngine{decision: domain.DecisionGood, reasons: []string{"great price"}}
	service := NewOfferService(&fakeProductRepository{byEAN: matched}, engine)

	res, err := service.CheckOffer(context.Background(), uuid.NewString(), "8001120000000", 0.89, 500, "g")
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionGood, res.Decision)
	require.NotNil(t, res.ProductID)
	assert.Equal(t, matched.ID.String(), *res.ProductID)

	require.NotNil(t, engine.gotUnitPrice)
	assert.InDelta(t, 0.89/500, *engine.gotUnitPrice, 1e-9)
	assert.Equal(t, "€/g", engine.gotUOM)
}

func TestCheckOfferRejectsInvalidUserID(t *testing.T) {
	matched := &entities.Product{ID: uuid.New()}
	service := NewOfferService(&fakeProductRepository{byEAN: matched}, &fakeDecisionEngine{})

	_, err := service.CheckOffer(context.Background(), "not-a-uuid", "8001120000000", 0.89, 500, "g")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}
