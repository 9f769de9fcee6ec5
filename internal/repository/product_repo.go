package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-portfolio-api/internal/model"
)

// editableColumns are the product columns an owner may change.
var editableColumns = []string{
	"name", "category", "live_demo", "description",
	"image_file_name", "image_file_path", "image_file_type", "image_file_size",
	"updated_at",
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Like and Unlike report whether the like relation changed.
	Like(ctx context.Context, productID, userID uuid.UUID) (*model.Product, bool, error)
	Unlike(ctx context.Context, productID, userID uuid.UUID) (*model.Product, bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("LikedBy").Order("created_at asc").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return findProduct(r.db.WithContext(ctx), id)
}

// Update writes the editable columns only. Owner and like state are never touched here.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	res := r.db.WithContext(ctx).
		Model(product).
		Select(editableColumns).
		Updates(product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes the product and its like rows together.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductLike{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

func (r *productRepo) Like(ctx context.Context, productID, userID uuid.UUID) (*model.Product, bool, error) {
	var (
		product *model.Product
		changed bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureLikeParties(tx, productID, userID); err != nil {
			return err
		}

		// The composite key turns a repeated like into a no-op insert.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.ProductLike{ProductID: productID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			changed = true
			if err := tx.Model(&model.Product{}).
				Where("id = ?", productID).
				UpdateColumn("likes", gorm.Expr("likes + ?", 1)).Error; err != nil {
				return err
			}
		}

		var err error
		product, err = findProduct(tx, productID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return product, changed, nil
}

func (r *productRepo) Unlike(ctx context.Context, productID, userID uuid.UUID) (*model.Product, bool, error) {
	var (
		product *model.Product
		changed bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureLikeParties(tx, productID, userID); err != nil {
			return err
		}

		res := tx.Where("product_id = ? AND user_id = ?", productID, userID).Delete(&model.ProductLike{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			changed = true
			if err := tx.Model(&model.Product{}).
				Where("id = ? AND likes > 0", productID).
				UpdateColumn("likes", gorm.Expr("likes - ?", 1)).Error; err != nil {
				return err
			}
		}

		var err error
		product, err = findProduct(tx, productID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return product, changed, nil
}

func findProduct(db *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := db.Preload("LikedBy").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func ensureLikeParties(tx *gorm.DB, productID, userID uuid.UUID) error {
	if err := exists(tx, &model.Product{}, productID, ErrProductNotFound); err != nil {
		return err
	}
	return exists(tx, &model.User{}, userID, ErrUserNotFound)
}

func exists(tx *gorm.DB, m interface{}, id uuid.UUID, notFound error) error {
	var count int64
	if err := tx.Model(m).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("lookup %s: %w", id, err)
	}
	if count == 0 {
		return notFound
	}
	return nil
}
