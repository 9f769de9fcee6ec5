package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/model"
)

type Type string

const (
	ProductCreated Type = "product_created"
	ProductUpdated Type = "product_updated"
	ProductDeleted Type = "product_deleted"
	ProductLiked   Type = "product_liked"
	ProductUnliked Type = "product_unliked"
)

// Event describes a product mutation. UserID is the acting user.
type Event struct {
	Type      Type      `json:"type"`
	ProductID uuid.UUID `json:"productId"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name,omitempty"`
	Likes     int       `json:"likes"`
	At        time.Time `json:"at"`
}

func NewProductEvent(t Type, p *model.Product, actor uuid.UUID) Event {
	return Event{
		Type:      t,
		ProductID: p.ID,
		UserID:    actor,
		Name:      p.Name,
		Likes:     p.Likes,
		At:        time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Emit publishes and logs failures. Event delivery never fails the caller.
func Emit(ctx context.Context, p Publisher, logger zerolog.Logger, event Event) {
	if err := p.Publish(ctx, event); err != nil {
		logger.Error().
			Err(err).
			Str("event", string(event.Type)).
			Str("product_id", event.ProductID.String()).
			Msg("failed to publish product event")
	}
}
