package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"offerta-backend/domain"
	"offerta-backend/internal/api/presenters"
	"offerta-backend/pkg/product"
)

type (
	ProductHandler interface {
		CreateProduct(c *fiber.Ctx) error
		CreateAlias(c *fiber.Ctx) error
		GetProduct(c *fiber.Ctx) error
	}

	productHandler struct {
		productService product.ProductService
		validator      *validator.Validate
	}
)

func NewProductHandler(productService product.ProductService, validator *validator.Validate) ProductHandler {
	return &productHandler{
		productService: productService,
		validator:      validator,
	}
}

// Catalog writes are admin-only; a shared catalog poisoned by arbitrary user
// input would corrupt every user's price history.
func requireAdmin(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != domain.RoleAdmin {
		return domain.ErrUserNotAllowed
	}
	return nil
}

func (h *productHandler) CreateProduct(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedCreateProduct, err)
	}

	req := new(domain.CreateProductRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateProduct, err)
	}

	res, err := h.productService.CreateProduct(c.Context(), *req)
	if err != nil {
		if errors.Is(err, domain.ErrProductAlreadyExists) {
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedCreateProduct, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateProduct, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateProduct)
}

func (h *productHandler) CreateAlias(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedCreateAlias, err)
	}

	productID := c.Params("id")
	req := new(domain.CreateAliasRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateAlias, err)
	}

	res, err := h.productService.CreateAlias(c.Context(), productID, *req)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedCreateAlias, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateAlias, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateAlias)
}

func (h *productHandler) GetProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	res, err := h.productService.GetProduct(c.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetProduct, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetProduct, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetProduct)
}
