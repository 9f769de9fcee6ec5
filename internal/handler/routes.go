package handler

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Product *ProductHandler
	Auth    *AuthHandler
	User    *UserHandler
	Contact *ContactHandler
}

// Register mounts the API routes on api. auth guards the protected ones.
func Register(api fiber.Router, h Handlers, auth fiber.Handler) {
	api.Get("/health", Health)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/logout", h.Auth.Logout)

	api.Get("/users/me", auth, h.User.Me)

	api.Post("/contact", auth, h.Contact.ContactUs)
	api.Post("/contactus", auth, h.Contact.ContactUs)

	products := api.Group("/products")
	products.Get("/", h.Product.GetProducts)
	products.Post("/", auth, h.Product.CreateProduct)
	products.Get("/:id", auth, h.Product.GetProduct)
	products.Patch("/:id", auth, h.Product.UpdateProduct)
	products.Delete("/:id", auth, h.Product.DeleteProduct)
	products.Post("/:id/like", auth, h.Product.LikeProduct)
	products.Delete("/:id/like", auth, h.Product.UnlikeProduct)
	// Older clients like through POST on the product itself.
	products.Post("/:id", auth, h.Product.LikeProduct)
}

// Health
// GET /api/health
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
