package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/cache"
	"go-portfolio-api/internal/config"
	"go-portfolio-api/internal/events"
	"go-portfolio-api/internal/media"
	"go-portfolio-api/internal/model"
	"go-portfolio-api/internal/repository"
	"go-portfolio-api/pkg/validator"
)

// ProductInput holds the client-editable product fields.
type ProductInput struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	SKU         string `json:"sku" validate:"max=100"`
	Category    string `json:"category" validate:"required,notblank,max=100"`
	LiveDemo    string `json:"liveDemo" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
}

// ProductPatch carries only the fields the client sent. Nil means keep.
// The SKU is fixed at creation.
type ProductPatch struct {
	Name        *string
	Category    *string
	LiveDemo    *string
	Description *string
}

func (p ProductPatch) mergeInto(product *model.Product) ProductInput {
	in := ProductInput{
		Name:        product.Name,
		SKU:         product.SKU,
		Category:    product.Category,
		LiveDemo:    product.LiveDemo,
		Description: product.Description,
	}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.LiveDemo != nil {
		in.LiveDemo = *p.LiveDemo
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	return in
}

type ProductService interface {
	CreateProduct(ctx context.Context, callerID uuid.UUID, input ProductInput, file *media.File) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.ProductResponse, error)
	GetProduct(ctx context.Context, id, callerID uuid.UUID) (*model.Product, error)
	UpdateProduct(ctx context.Context, id, callerID uuid.UUID, patch ProductPatch, file *media.File) (*model.Product, error)
	DeleteProduct(ctx context.Context, id, callerID uuid.UUID) error
	LikeProduct(ctx context.Context, id, callerID uuid.UUID) (*model.Product, error)
	UnlikeProduct(ctx context.Context, id, callerID uuid.UUID) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	uploader    media.Uploader
	cache       cache.ProductCache
	publisher   events.Publisher
	mediaCfg    config.MediaConfig
	logger      zerolog.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	uploader media.Uploader,
	productCache cache.ProductCache,
	publisher events.Publisher,
	mediaCfg config.MediaConfig,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		uploader:    uploader,
		cache:       productCache,
		publisher:   publisher,
		mediaCfg:    mediaCfg,
		logger:      logger.With().Str("component", "product-service").Logger(),
	}
}

func (s *productService) CreateProduct(ctx context.Context, callerID uuid.UUID, input ProductInput, file *media.File) (*model.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// Upload must finish before anything is stored.
	var image model.Image
	if file != nil {
		var err error
		if image, err = s.uploadImage(ctx, *file); err != nil {
			return nil, err
		}
	}

	product := &model.Product{
		UserID:      callerID,
		Name:        input.Name,
		SKU:         input.SKU,
		Category:    input.Category,
		LiveDemo:    input.LiveDemo,
		Description: input.Description,
		Image:       image,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.afterWrite(ctx, events.ProductCreated, product, callerID)
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]model.ProductResponse, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("product cache read failed, falling back to store")
	}
	if ok {
		return cached, nil
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := model.ToProductResponses(products)
	if err := s.cache.Set(ctx, out); err != nil {
		s.logger.Warn().Err(err).Msg("product cache write failed")
	}
	return out, nil
}

func (s *productService) GetProduct(ctx context.Context, id, callerID uuid.UUID) (*model.Product, error) {
	return s.ownedProduct(ctx, id, callerID)
}

func (s *productService) UpdateProduct(ctx context.Context, id, callerID uuid.UUID, patch ProductPatch, file *media.File) (*model.Product, error) {
	product, err := s.ownedProduct(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	input := patch.mergeInto(product)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// Without a new file the stored image stays as is.
	if file != nil {
		image, err := s.uploadImage(ctx, *file)
		if err != nil {
			return nil, err
		}
		product.Image = image
	}

	product.Name = input.Name
	product.Category = input.Category
	product.LiveDemo = input.LiveDemo
	product.Description = input.Description

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, translateRepoErr(fmt.Errorf("update product: %w", err))
	}

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}

	s.afterWrite(ctx, events.ProductUpdated, updated, callerID)
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id, callerID uuid.UUID) error {
	product, err := s.ownedProduct(ctx, id, callerID)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return translateRepoErr(fmt.Errorf("delete product: %w", err))
	}

	s.afterWrite(ctx, events.ProductDeleted, product, callerID)
	return nil
}

func (s *productService) LikeProduct(ctx context.Context, id, callerID uuid.UUID) (*model.Product, error) {
	product, changed, err := s.productRepo.Like(ctx, id, callerID)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if changed {
		s.afterWrite(ctx, events.ProductLiked, product, callerID)
	}
	return product, nil
}

func (s *productService) UnlikeProduct(ctx context.Context, id, callerID uuid.UUID) (*model.Product, error) {
	product, changed, err := s.productRepo.Unlike(ctx, id, callerID)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if changed {
		s.afterWrite(ctx, events.ProductUnliked, product, callerID)
	}
	return product, nil
}

// ownedProduct loads the product and checks that callerID owns it.
func (s *productService) ownedProduct(ctx context.Context, id, callerID uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if !product.OwnedBy(callerID) {
		return nil, ErrNotAuthorized
	}
	return product, nil
}

func (s *productService) uploadImage(ctx context.Context, file media.File) (model.Image, error) {
	if file.Size > s.mediaCfg.MaxUploadSize {
		return model.Image{}, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, file.Size)
	}

	ctx, cancel := context.WithTimeout(ctx, s.mediaCfg.UploadTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.uploader.Upload(ctx, file, media.UploadOptions{
		Folder:       s.mediaCfg.Folder,
		ResourceType: "image",
	})
	if err != nil {
		s.logger.Error().Err(err).Str("file", file.Name).Dur("duration", time.Since(start)).Msg("image upload failed")
		return model.Image{}, fmt.Errorf("%w: %v", ErrImageUpload, err)
	}

	return model.Image{
		FileName: file.Name,
		FilePath: res.SecureURL,
		FileType: file.ContentType,
		FileSize: media.FormatFileSize(file.Size, 2),
	}, nil
}

// afterWrite drops the cached list and announces the change.
func (s *productService) afterWrite(ctx context.Context, t events.Type, product *model.Product, actor uuid.UUID) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("product cache invalidation failed")
	}
	events.Emit(ctx, s.publisher, s.logger, events.NewProductEvent(t, product, actor))
}

func validateInput(in ProductInput) error {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(validator.Fields(errs), ", "))
	}
	return nil
}

func translateRepoErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return ErrProductNotFound
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	default:
		return err
	}
}
