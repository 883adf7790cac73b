package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"offerta-backend/domain"
	"offerta-backend/internal/api/presenters"
	"offerta-backend/pkg/pricing"
)

type (
	OfferHandler interface {
		CheckOffer(c *fiber.Ctx) error
	}

	offerHandler struct {
		offerService pricing.OfferService
	}
)

func NewOfferHandler(offerService pricing.OfferService) OfferHandler {
	return &offerHandler{offerService: offerService}
}

func (h *offerHandler) CheckOffer(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	ean := c.Query("ean")
	if ean == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCheckOffer, nil)
	}

	price, err := strconv.ParseFloat(c.Query("price"), 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCheckOffer, err)
	}

	size, err := strconv.ParseFloat(c.Query("size"), 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCheckOffer, err)
	}

	uom := c.Query("uom", "100g")

	res, err := h.offerService.CheckOffer(c.Context(), userID, ean, price, size, uom)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCheckOffer, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCheckOffer)
}
