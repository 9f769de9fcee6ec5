package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/config"
)

// cloudinaryUploader implements Uploader against the Cloudinary upload API.
type cloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	logger zerolog.Logger
}

// NewCloudinaryUploader prefers CLOUDINARY_URL and falls back to discrete credentials.
func NewCloudinaryUploader(cfg config.MediaConfig, logger zerolog.Logger) (Uploader, error) {
	logger = logger.With().Str("component", "cloudinary-uploader").Logger()

	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.CloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to configure cloudinary")
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	logger.Info().Str("cloud", cld.Config.Cloud.CloudName).Msg("cloudinary uploader initialised")

	return &cloudinaryUploader{cld: cld, logger: logger}, nil
}

func (u *cloudinaryUploader) Upload(ctx context.Context, file File, opts UploadOptions) (*UploadResult, error) {
	if file.Body == nil || file.Size == 0 {
		return nil, ErrEmptyFile
	}

	resp, err := u.cld.Upload.Upload(ctx, file.Body, uploader.UploadParams{
		Folder:       opts.Folder,
		ResourceType: opts.ResourceType,
	})
	if err != nil {
		u.logger.Error().Err(err).Str("file", file.Name).Msg("cloudinary upload failed")
		return nil, fmt.Errorf("cloudinary upload %s: %w", file.Name, err)
	}
	if resp.Error.Message != "" {
		u.logger.Error().Str("file", file.Name).Str("reason", resp.Error.Message).Msg("cloudinary rejected upload")
		return nil, fmt.Errorf("cloudinary upload %s: %w", file.Name, errors.New(resp.Error.Message))
	}
	if resp.SecureURL == "" {
		return nil, fmt.Errorf("cloudinary upload %s: no secure url returned", file.Name)
	}

	u.logger.Debug().Str("file", file.Name).Str("public_id", resp.PublicID).Msg("image uploaded")
	return &UploadResult{SecureURL: resp.SecureURL}, nil
}
