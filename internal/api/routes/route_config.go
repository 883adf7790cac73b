package routes

import (
	"github.com/gofiber/fiber/v2"

	"offerta-backend/internal/api/handlers"
	"offerta-backend/internal/middleware"
	"offerta-backend/pkg/jwt"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	ReceiptHandler handlers.ReceiptHandler
	OfferHandler   handlers.OfferHandler
	ProductHandler handlers.ProductHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Users()
	c.Receipts()
	c.Offers()
	c.Products()
	c.GuestRoute()
}

func (c *Config) Users() {
	users := c.App.Group("/api/v1/users")

	users.Post("/register", c.UserHandler.Register)
	users.Post("/login", c.UserHandler.Login)
	users.Get("/verify", c.UserHandler.VerifyEmail)
	users.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	users.Patch("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateProfile)
}

func (c *Config) Receipts() {
	receipts := c.App.Group("/api/v1/receipts", c.Middleware.AuthMiddleware(c.JWTService))

	receipts.Post("/upload", c.ReceiptHandler.UploadReceipt)
	receipts.Get("/:id", c.ReceiptHandler.GetReceipt)
	receipts.Get("/:id/items", c.ReceiptHandler.GetReceiptItems)
	receipts.Post("/:id/reprocess", c.ReceiptHandler.ReprocessReceipt)
}

func (c *Config) Offers() {
	offers := c.App.Group("/api/v1/offers", c.Middleware.AuthMiddleware(c.JWTService))

	offers.Get("/check", c.OfferHandler.CheckOffer)
}

func (c *Config) Products() {
	products := c.App.Group("/api/v1/products", c.Middleware.AuthMiddleware(c.JWTService))

	products.Post("/", c.ProductHandler.CreateProduct)
	products.Post("/:id/aliases", c.ProductHandler.CreateAlias)
	products.Get("/:id", c.ProductHandler.GetProduct)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
