package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductLike is the join row behind Product.LikedBy and User.LikedProducts.
// The composite key makes a second like by the same user impossible.
type ProductLike struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

func (ProductLike) TableName() string {
	return "product_likes"
}
