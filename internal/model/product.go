package model

import (
	"time"

	"github.com/google/uuid"
)

// Image describes an uploaded product picture. A product without a picture
// carries the zero value, which serialises as an empty object.
type Image struct {
	FileName string `gorm:"type:varchar(255)" json:"fileName,omitempty"`
	FilePath string `gorm:"type:text" json:"filePath,omitempty"`
	FileType string `gorm:"type:varchar(100)" json:"fileType,omitempty"`
	FileSize string `gorm:"type:varchar(32)" json:"fileSize,omitempty"`
}

func (i Image) IsZero() bool {
	return i == Image{}
}

type Product struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user"` // owner, never changes
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	SKU         string    `gorm:"type:varchar(100)" json:"sku"`
	Category    string    `gorm:"type:varchar(100);not null" json:"category"`
	LiveDemo    string    `gorm:"type:text;not null" json:"liveDemo"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Image       Image     `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	Likes       int       `gorm:"not null;default:0" json:"likes"`

	// Relasi
	LikedBy []User `gorm:"many2many:product_likes;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Product) OwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// ProductResponse is used for API responses, likedBy expanded to liker identities
type ProductResponse struct {
	ID          uuid.UUID     `json:"id"`
	User        uuid.UUID     `json:"user"`
	Name        string        `json:"name"`
	SKU         string        `json:"sku"`
	Category    string        `json:"category"`
	LiveDemo    string        `json:"liveDemo"`
	Description string        `json:"description"`
	Image       Image         `json:"image"`
	Likes       int           `json:"likes"`
	LikedBy     []UserSummary `json:"likedBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ToResponse converts Product to ProductResponse
func (p *Product) ToResponse() ProductResponse {
	likedBy := make([]UserSummary, 0, len(p.LikedBy))
	for i := range p.LikedBy {
		likedBy = append(likedBy, p.LikedBy[i].ToSummary())
	}

	return ProductResponse{
		ID:          p.ID,
		User:        p.UserID,
		Name:        p.Name,
		SKU:         p.SKU,
		Category:    p.Category,
		LiveDemo:    p.LiveDemo,
		Description: p.Description,
		Image:       p.Image,
		Likes:       p.Likes,
		LikedBy:     likedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProductResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, products[i].ToResponse())
	}
	return out
}
