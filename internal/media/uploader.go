package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"go-portfolio-api/internal/config"
)

var ErrEmptyFile = errors.New("empty file")

// File is an incoming upload as received from the client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadOptions struct {
	Folder       string
	ResourceType string
}

// UploadResult carries the permanent public URL of the stored asset.
type UploadResult struct {
	SecureURL string
}

// Uploader stores a file on a media host.
type Uploader interface {
	Upload(ctx context.Context, file File, opts UploadOptions) (*UploadResult, error)
}

// New builds the uploader selected by cfg.Provider.
func New(ctx context.Context, cfg config.MediaConfig, logger zerolog.Logger) (Uploader, error) {
	switch cfg.Provider {
	case config.MediaProviderCloudinary:
		return NewCloudinaryUploader(cfg, logger)
	case config.MediaProviderS3:
		return NewS3Uploader(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown media provider %q", cfg.Provider)
	}
}
