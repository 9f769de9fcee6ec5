package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is owned by the identity side of the system; this service only reads
// it and maintains its liked-product relation.
type User struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON

	LikedProducts []Product `gorm:"many2many:product_likes;constraint:OnDelete:CASCADE" json:"-"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserSummary is the expanded liker identity embedded in product responses
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (u *User) ToSummary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	LikedProducts []uuid.UUID `json:"likedProducts"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	liked := make([]uuid.UUID, 0, len(u.LikedProducts))
	for i := range u.LikedProducts {
		liked = append(liked, u.LikedProducts[i].ID)
	}
	return UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		LikedProducts: liked,
	}
}
