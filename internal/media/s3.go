package media

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/config"
)

// putObjectAPI is the slice of the S3 client the uploader needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Uploader implements Uploader by writing objects to an S3 bucket.
type s3Uploader struct {
	client  putObjectAPI
	bucket  string
	region  string
	baseURL string
	newKey  func(folder, name string) string
	logger  zerolog.Logger
}

func NewS3Uploader(ctx context.Context, cfg config.MediaConfig, logger zerolog.Logger) (Uploader, error) {
	logger = logger.With().Str("component", "s3-uploader").Logger()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", cfg.S3Bucket).
		Str("region", cfg.S3Region).
		Msg("S3 uploader initialised")

	return newS3Uploader(s3.NewFromConfig(awsCfg), cfg, logger), nil
}

func newS3Uploader(client putObjectAPI, cfg config.MediaConfig, logger zerolog.Logger) *s3Uploader {
	return &s3Uploader{
		client:  client,
		bucket:  cfg.S3Bucket,
		region:  cfg.S3Region,
		baseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
		newKey:  objectKey,
		logger:  logger,
	}
}

func (u *s3Uploader) Upload(ctx context.Context, file File, opts UploadOptions) (*UploadResult, error) {
	if file.Body == nil || file.Size == 0 {
		return nil, ErrEmptyFile
	}

	key := u.newKey(opts.Folder, file.Name)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          file.Body,
		ContentLength: aws.Int64(file.Size),
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		u.logger.Error().
			Err(err).
			Str("bucket", u.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return nil, fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", u.bucket, key, err)
	}

	return &UploadResult{SecureURL: u.publicURL(key)}, nil
}

func (u *s3Uploader) publicURL(key string) string {
	base := u.baseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", u.bucket, u.region)
	}
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return base + "/" + strings.Join(segments, "/")
}

// objectKey places the file under folder with a unique prefix so equal names never collide.
func objectKey(folder, name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = "upload"
	}
	return path.Join(strings.Trim(folder, "/"), uuid.NewString()+"-"+name)
}
