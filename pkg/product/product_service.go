package product

import (
	"context"

	"offerta-backend/domain"
	"offerta-backend/entities"
)

type (
	// ProductService is the catalog maintenance surface: receipts only ever
	// read the catalog, so products and aliases enter through here.
	ProductService interface {
		CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.ProductResponse, error)
		CreateAlias(ctx context.Context, productID string, req domain.CreateAliasRequest) (domain.AliasResponse, error)
		GetProduct(ctx context.Context, id string) (domain.ProductResponse, error)
	}

	productService struct {
		productRepository ProductRepository
	}
)

func NewProductService(productRepository ProductRepository) ProductService {
	return &productService{productRepository: productRepository}
}

func (s *productService) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.ProductResponse, error) {
	if req.EAN != nil {
		existing, err := s.productRepository.FindByEAN(ctx, *req.EAN)
		if err != nil {
			return domain.ProductResponse{}, err
		}
		if existing != nil {
			return domain.ProductResponse{}, domain.ErrProductAlreadyExists
		}
	}

	newProduct := &entities.Product{
		EAN:              req.EAN,
		Brand:            req.Brand,
		NameNorm:         req.NameNorm,
		PackageSizeValue: req.PackageSizeValue,
		PackageSizeUOM:   req.PackageSizeUOM,
	}
	if err := s.productRepository.CreateProduct(ctx, newProduct); err != nil {
		return domain.ProductResponse{}, err
	}

	return toProductResponse(newProduct), nil
}

func (s *productService) CreateAlias(ctx context.Context, productID string, req domain.CreateAliasRequest) (domain.AliasResponse, error) {
	matched, err := s.productRepository.GetProductByID(ctx, productID)
	if err != nil {
		return domain.AliasResponse{}, err
	}
	if matched == nil {
		return domain.AliasResponse{}, domain.ErrProductNotFound
	}

	newAlias := &entities.Alias{
		ProductID:      matched.ID,
		RawNamePattern: req.RawNamePattern,
	}
	if err := s.productRepository.CreateAlias(ctx, newAlias); err != nil {
		return domain.AliasResponse{}, err
	}

	return domain.AliasResponse{
		ID:             newAlias.ID.String(),
		ProductID:      matched.ID.String(),
		RawNamePattern: newAlias.RawNamePattern,
	}, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (domain.ProductResponse, error) {
	matched, err := s.productRepository.GetProductByID(ctx, id)
	if err != nil {
		return domain.ProductResponse{}, err
	}
	if matched == nil {
		return domain.ProductResponse{}, domain.ErrProductNotFound
	}
	return toProductResponse(matched), nil
}

func toProductResponse(product *entities.Product) domain.ProductResponse {
	return domain.ProductResponse{
		ID:               product.ID.String(),
		EAN:              product.EAN,
		Brand:            product.Brand,
		NameNorm:         product.NameNorm,
		PackageSizeValue: product.PackageSizeValue,
		PackageSizeUOM:   product.PackageSizeUOM,
	}
}
