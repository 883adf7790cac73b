package domain

import "errors"

var (
	MessageSuccessCreateProduct = "product created successfully"
	MessageSuccessCreateAlias   = "alias created successfully"
	MessageSuccessGetProduct    = "product retrieved successfully"

	MessageFailedCreateProduct = "failed to create product"
	MessageFailedCreateAlias   = "failed to create alias"
	MessageFailedGetProduct    = "failed to retrieve product"

	ErrProductAlreadyExists = errors.New("product with this EAN already exists")
)

type (
	CreateProductRequest struct {
		EAN              *string  `json:"ean" validate:"omitempty,len=13,numeric"`
		Brand            string   `json:"brand" validate:"omitempty"`
		NameNorm         string   `json:"name_norm" validate:"required"`
		PackageSizeValue *float64 `json:"package_size_value" validate:"omitempty,gt=0"`
		PackageSizeUOM   string   `json:"package_size_uom" validate:"omitempty,oneof=g kg ml cl l"`
	}

	CreateAliasRequest struct {
		RawNamePattern string `json:"raw_name_pattern" validate:"required"`
	}

	ProductResponse struct {
		ID               string   `json:"id"`
		EAN              *string  `json:"ean,omitempty"`
		Brand            string   `json:"brand,omitempty"`
		NameNorm         string   `json:"name_norm"`
		PackageSizeValue *float64 `json:"package_size_value,omitempty"`
		PackageSizeUOM   string   `json:"package_size_uom,omitempty"`
	}

	AliasResponse struct {
		ID             string `json:"id"`
		ProductID      string `json:"product_id"`
		RawNamePattern string `json:"raw_name_pattern"`
	}
)
