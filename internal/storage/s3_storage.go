// Package storage issues presigned S3 uploads for catalog images. The API
// never proxies image bytes; clients PUT straight to the bucket and then
// attach the returned file URL to a product or category.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appconfig "github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
)

const (
	FolderProducts   = "products"
	FolderCategories = "categories"

	presignExpiry = 15 * time.Minute
)

var (
	ErrUnsupportedContentType = errors.New("only JPEG, PNG, GIF and WEBP images are allowed")
	ErrUnknownFolder          = errors.New("unknown upload folder")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var allowedFolders = map[string]bool{
	FolderProducts:   true,
	FolderCategories: true,
}

type PresignedUpload struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ImageStorage is what the upload endpoint depends on
type ImageStorage interface {
	PresignImageUpload(ctx context.Context, filename, contentType, folder string) (*PresignedUpload, error)
}

type S3Storage struct {
	presign func(ctx context.Context, in *s3.PutObjectInput) (string, error)
	bucket  string
	region  string
	baseURL string
	now     func() time.Time
}

// NewS3Storage uses static keys when both are set and the default
// credential chain otherwise
func NewS3Storage(ctx context.Context, cfg appconfig.S3Config) *S3Storage {
	var awsCfg aws.Config
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		loaded, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Falling back to region-only AWS config", map[string]interface{}{
				"error": err.Error(),
			})
			loaded = aws.Config{Region: cfg.Region}
		}
		awsCfg = loaded
	}

	client := s3.NewPresignClient(s3.NewFromConfig(awsCfg))
	return &S3Storage{
		presign: func(ctx context.Context, in *s3.PutObjectInput) (string, error) {
			req, err := client.PresignPutObject(ctx, in, s3.WithPresignExpires(presignExpiry))
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		now:     time.Now,
	}
}

// PresignImageUpload validates the image type and folder, then signs a PUT
// for a fresh object key under folder
func (s *S3Storage) PresignImageUpload(ctx context.Context, filename, contentType, folder string) (*PresignedUpload, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	fallbackExt, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedContentType
	}
	if folder == "" {
		folder = FolderProducts
	}
	if !allowedFolders[folder] {
		return nil, ErrUnknownFolder
	}

	key := ObjectKey(folder, filename, fallbackExt)
	url, err := s.presign(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedUpload{
		UploadURL: url,
		FileURL:   s.FileURL(key),
		Key:       key,
		ExpiresAt: s.now().UTC().Add(presignExpiry),
	}, nil
}

// FileURL prefers the CDN base URL and falls back to the bucket endpoint
func (s *S3Storage) FileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// ObjectKey names an upload with a random UUID, keeping the client's
// extension when it has one
func ObjectKey(folder, filename, fallbackExt string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = fallbackExt
	}
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
}
