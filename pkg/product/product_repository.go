package product

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"offerta-backend/entities"
)

type (
	ProductRepository interface {
		CreateProduct(ctx context.Context, product *entities.Product) error
		CreateAlias(ctx context.Context, alias *entities.Alias) error
		GetProductByID(ctx context.Context, id string) (*entities.Product, error)
		FindByEAN(ctx context.Context, ean string) (*entities.Product, error)
		FindAliasByDescription(ctx context.Context, description string) (*entities.Alias, error)
		FindByNameSubstring(ctx context.Context, description string) (*entities.Product, error)
	}

	productRepository struct {
		db *gorm.DB
	}
)

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) CreateAlias(ctx context.Context, alias *entities.Alias) error {
	return r.db.WithContext(ctx).Create(alias).Error
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByEAN(ctx context.Context, ean string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("ean = ?", ean).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindAliasByDescription(ctx context.Context, description string) (*entities.Alias, error) {
	var alias entities.Alias
	// Longest pattern first keeps the lookup deterministic when several
	// aliases are contained in the same description.
	if err := r.db.WithContext(ctx).
		Where("? ILIKE '%' || raw_name_pattern || '%'", description).
		Order("length(raw_name_pattern) desc").
		First(&alias).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alias, nil
}

func (r *productRepository) FindByNameSubstring(ctx context.Context, description string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).
		Where("? ILIKE '%' || name_norm || '%' OR name_norm ILIKE '%' || ? || '%'", description, description).
		Order("length(name_norm) desc").
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}
