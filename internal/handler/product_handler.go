package handler

import (
	"context"
	"encoding/json"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/media"
	"go-portfolio-api/internal/middleware"
	"go-portfolio-api/internal/model"
	"go-portfolio-api/internal/service"
)

const imageField = "image"

type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

func NewProductHandler(s service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: s,
		logger:  logger.With().Str("component", "product-handler").Logger(),
	}
}

// productForm is the create/update body. Nil fields were not sent.
type productForm struct {
	Name        *string `json:"name"`
	SKU         *string `json:"sku"`
	Category    *string `json:"category"`
	LiveDemo    *string `json:"liveDemo"`
	Description *string `json:"description"`
}

func (f productForm) input() service.ProductInput {
	return service.ProductInput{
		Name:        deref(f.Name),
		SKU:         deref(f.SKU),
		Category:    deref(f.Category),
		LiveDemo:    deref(f.LiveDemo),
		Description: deref(f.Description),
	}
}

func (f productForm) patch() service.ProductPatch {
	return service.ProductPatch{
		Name:        f.Name,
		Category:    f.Category,
		LiveDemo:    f.LiveDemo,
		Description: f.Description,
	}
}

// CreateProduct handles multipart product creation with an optional image
// POST /api/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	callerID, _ := middleware.UserID(c)

	form, file, closeFile, err := parseProductRequest(c)
	if err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}
	defer closeFile()

	product, err := h.service.CreateProduct(c.UserContext(), callerID, form.input(), file)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(product.ToResponse())
}

// GetProducts lists every product with likers expanded
// GET /api/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("error retrieving products")
		return message(c, fiber.StatusInternalServerError, internalErrorMessage)
	}
	return c.JSON(products)
}

// GetProduct returns one product to its owner
// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return respondError(c, h.logger, service.ErrProductNotFound)
	}
	callerID, _ := middleware.UserID(c)

	product, err := h.service.GetProduct(c.UserContext(), id, callerID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(product.ToResponse())
}

// UpdateProduct applies the sent fields and optionally replaces the image
// PATCH /api/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return respondError(c, h.logger, service.ErrProductNotFound)
	}
	callerID, _ := middleware.UserID(c)

	form, file, closeFile, err := parseProductRequest(c)
	if err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}
	defer closeFile()

	product, err := h.service.UpdateProduct(c.UserContext(), id, callerID, form.patch(), file)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(product.ToResponse())
}

// DeleteProduct
// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return respondError(c, h.logger, service.ErrProductNotFound)
	}
	callerID, _ := middleware.UserID(c)

	if err := h.service.DeleteProduct(c.UserContext(), id, callerID); err != nil {
		return respondError(c, h.logger, err)
	}
	return message(c, fiber.StatusOK, "Product deleted.")
}

// LikeProduct
// POST /api/products/:id/like
func (h *ProductHandler) LikeProduct(c *fiber.Ctx) error {
	return h.toggleLike(c, h.service.LikeProduct, "Product liked successfully")
}

// UnlikeProduct
// DELETE /api/products/:id/like
func (h *ProductHandler) UnlikeProduct(c *fiber.Ctx) error {
	return h.toggleLike(c, h.service.UnlikeProduct, "Product unliked successfully")
}

type likeFunc func(ctx context.Context, id, callerID uuid.UUID) (*model.Product, error)

func (h *ProductHandler) toggleLike(c *fiber.Ctx, apply likeFunc, success string) error {
	id, ok := productID(c)
	if !ok {
		return respondError(c, h.logger, service.ErrProductNotFound)
	}
	callerID, _ := middleware.UserID(c)

	product, err := apply(c.UserContext(), id, callerID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": success, "likes": product.Likes})
}

func productID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

// parseProductRequest reads product fields from a JSON, multipart or urlencoded
// body plus an optional image part. closeFile is always safe to call.
func parseProductRequest(c *fiber.Ctx) (productForm, *media.File, func(), error) {
	var form productForm
	noop := func() {}

	if c.Is("json") {
		if len(c.Body()) > 0 {
			if err := json.Unmarshal(c.Body(), &form); err != nil {
				return form, nil, noop, err
			}
		}
		return form, nil, noop, nil
	}

	multi, err := c.MultipartForm()
	if err != nil {
		// Not multipart: fall back to urlencoded fields.
		args := c.Request().PostArgs()
		field := func(key string) *string {
			if !args.Has(key) {
				return nil
			}
			v := string(args.Peek(key))
			return &v
		}
		form = productForm{
			Name:        field("name"),
			SKU:         field("sku"),
			Category:    field("category"),
			LiveDemo:    field("liveDemo"),
			Description: field("description"),
		}
		return form, nil, noop, nil
	}

	field := func(key string) *string {
		if vals, ok := multi.Value[key]; ok && len(vals) > 0 {
			v := vals[0]
			return &v
		}
		return nil
	}
	form = productForm{
		Name:        field("name"),
		SKU:         field("sku"),
		Category:    field("category"),
		LiveDemo:    field("liveDemo"),
		Description: field("description"),
	}

	file, closeFile, err := openImage(multi)
	if err != nil {
		return form, nil, noop, err
	}
	return form, file, closeFile, nil
}

func openImage(form *multipart.Form) (*media.File, func(), error) {
	headers := form.File[imageField]
	if len(headers) == 0 {
		return nil, func() {}, nil
	}
	fh := headers[0]

	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}

	return &media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
