package assethost

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/snapvault/snapvault-api/internal/pkg/imaging"
)

// R2Host hosts assets on Cloudflare R2. The original and a locally generated
// thumbnail are stored side by side; the delete reference carries both keys.
type R2Host struct {
	client    *s3.Client
	bucket    string
	publicURL string
	processor *imaging.Processor
}

// R2Config holds R2 connection configuration
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	PublicURL       string // e.g., https://cdn.snapvault.dev
}

// NewR2Host creates a new Cloudflare R2 asset host
func NewR2Host(cfg R2Config, processor *imaging.Processor) (*R2Host, error) {
	// R2 endpoint format: https://<account_id>.r2.cloudflarestorage.com
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: endpoint,
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.AccessKeySecret,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	return &R2Host{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
		processor: processor,
	}, nil
}

// Upload processes the image and stores the original plus a thumbnail.
func (h *R2Host) Upload(ctx context.Context, filename string, data []byte, contentType string) (*Asset, error) {
	processed, err := h.processor.Process(data)
	if err != nil {
		return nil, err
	}

	base := uuid.New().String()
	key := "images/" + base + processed.Ext
	thumbKey := "thumbs/" + base + processed.Ext

	if err := h.put(ctx, key, processed.Original, processed.ContentType); err != nil {
		return nil, err
	}
	if err := h.put(ctx, thumbKey, processed.Thumbnail, processed.ContentType); err != nil {
		// Original is already stored; remove it so no orphan survives the failure
		_ = h.deleteKey(ctx, key)
		return nil, err
	}

	return &Asset{
		URL:          h.urlFor(key),
		ThumbnailURL: h.urlFor(thumbKey),
		DeleteRef:    key + "," + thumbKey,
	}, nil
}

// Delete removes the original and thumbnail objects named by the delete reference.
func (h *R2Host) Delete(ctx context.Context, deleteRef string) error {
	for _, key := range strings.Split(deleteRef, ",") {
		if key == "" {
			continue
		}
		if err := h.deleteKey(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (h *R2Host) put(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}
	if _, err := h.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to R2: %w", err)
	}
	return nil
}

func (h *R2Host) deleteKey(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	}
	if _, err := h.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}
	return nil
}

func (h *R2Host) urlFor(key string) string {
	if h.publicURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(h.publicURL, "/"), key)
	}
	// Fallback to direct R2 URL (requires public bucket)
	return fmt.Sprintf("https://%s.r2.dev/%s", h.bucket, key)
}
